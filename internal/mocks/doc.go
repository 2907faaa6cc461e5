// Package mocks provides hand-written test doubles for the store and
// service interfaces. The in-memory stores behave like the real ones
// (ownership scoping included) so handler and service tests can run the
// full request path without a database.
package mocks
