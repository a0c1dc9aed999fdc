// Package rest serves the blogkeeper JSON API over gin: account registration,
// login and the bearer-token gate that guards protected routes.
package rest
