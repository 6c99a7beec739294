// Package mocks provides gomock implementations of the console's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sid").Return(sess, nil)
package mocks

// CredentialVerifier, SessionStore: Verify, Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_mock.go github.com/wishara/admin-console/internal/ports CredentialVerifier,SessionStore

// TokenSource, TokenRegistrar, BrowserReportStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=push_mock.go github.com/wishara/admin-console/internal/ports TokenSource,TokenRegistrar,BrowserReportStore

// AuditRepository: Record, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_mock.go github.com/wishara/admin-console/internal/ports AuditRepository
