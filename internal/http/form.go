package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSubmit performs the create (id == "") or update.
type FormSubmit[T any] func(ctx context.Context, id string, req T) error

// FormRenderer renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Mode     FormMode
	Parser   FormParser[T]
	Submit   FormSubmit[T]
	Renderer FormRenderer
	PageMeta PageMeta

	SuccessURL     string
	SuccessMessage string
	// SuccessRender renders SuccessURL in place for htmx callers. Optional.
	SuccessRender http.HandlerFunc

	// ExtraData is passed to the template on error (select options and the like).
	ExtraData map[string]any
	// GetID defaults to r.PathValue("id").
	GetID func(r *http.Request) string
	// Handler resolves auth failures. Optional in tests.
	Handler *UIHandlers
}

// HandleForm processes Create and Update submissions: parse, validate,
// submit, and either re-render with errors or finish with a toast.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	id := ""
	switch opts.Mode {
	case FormModeCreate:
	case FormModeEdit:
		id = getFormID(opts)
		if id == "" {
			http.NotFound(opts.W, opts.R)
			return
		}
	default:
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	if err := opts.Submit(opts.R.Context(), id, data); err != nil {
		handleFormServiceError(opts, err, data)
		return
	}

	if opts.Handler != nil {
		opts.Handler.succeeded(opts.W, opts.R, opts.SuccessURL, opts.SuccessMessage, opts.SuccessRender)
		return
	}
	triggerToast(opts.W, opts.SuccessMessage, toastSuccess)
	HTMX(opts.W).Redirect(opts.SuccessURL)
}

func getFormID[T any](opts FormHandlerOpts[T]) string {
	if opts.GetID != nil {
		return opts.GetID(opts.R)
	}
	return opts.R.PathValue("id")
}

// handleFormServiceError maps a failed submit back onto the form. Field
// validation errors from the model or the API land next to their input.
func handleFormServiceError[T any](opts FormHandlerOpts[T], err error, data T) {
	if errors.Is(err, context.Canceled) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}
	if opts.Handler != nil && opts.Handler.handleAuthFailure(opts.W, opts.R, err) {
		return
	}
	if opts.Handler != nil {
		opts.Handler.logger().WarnContext(opts.R.Context(), "form submit failed",
			"path", opts.R.URL.Path, "mode", opts.Mode, "error", err)
	}

	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			opts.renderFormError(map[string]string{field: errorMessage(err, "This value is invalid.")}, "", data)
			return
		}
	}
	opts.renderFormError(nil, errorMessage(err, "Unable to save. Please try again."), data)
}

// renderFormError re-renders the form with errors and the submitted values.
func (o FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	templateData := basePageData(o.R, o.PageMeta)
	if len(fieldErrors) > 0 {
		templateData["Errors"] = fieldErrors
	}
	switch {
	case generalError != "":
		templateData["Error"] = true
		templateData["ErrorMessage"] = generalError
	case len(fieldErrors) > 0:
		templateData["Error"] = true
		templateData["ErrorMessage"] = errMsgFixBelow
	}
	templateData["Mode"] = string(o.Mode)
	maps.Copy(templateData, o.ExtraData)
	templateData["FormData"] = data
	if o.Mode == FormModeEdit {
		templateData["ID"] = getFormID(o)
	}
	o.Renderer(o.W, o.R, templateData)
}
