// Package service contains the application services that sit between the
// HTTP boundary and the stores. Services receive the caller's verified
// identity as an explicit parameter; they never read it from ambient
// request state.
package service
