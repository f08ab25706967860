// Package domain contains the core domain model for the registration form.
//
// This package defines:
//   - FormState: the full set of field values, replaced as a whole on update
//   - ErrorMap: per-field validation messages, recomputed on every pass
//   - CountryRecord: a (name, flag) pair from the country directory
//   - FormSession: one form in progress, as held by the HTTP front-end
//   - Domain errors shared by every layer
//
// Rules for this package:
//   - No infrastructure concerns (HTTP, storage, logging setup)
//   - Values are copied, never shared: FormState.With returns a new state
//
// Example:
//
//	state := domain.NewFormState()
//	state, err := state.With(domain.FieldEmail, "a@b.com")
//	if err != nil {
//	    // unknown field or wrong value kind
//	}
package domain
