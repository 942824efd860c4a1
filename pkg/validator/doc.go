// Package validator runs declarative rules over request values and collects
// every failure into ValidationErrors.
//
//	err := validator.Apply(
//		validator.Required("email", req.Email),
//		validator.ValidEmail("email", req.Email),
//		validator.ByteLenBetween("password", req.Password, 8, 72),
//	)
//	if validator.IsValidationError(err) { ... }
package validator
