// Package form implements the controller that owns a mounted form's values
// and validation errors.
//
// Lifecycle: Pristine -> Editing on the first Change; Submit moves through
// Validating to Valid or Invalid. A successful submit hands a copy of the
// values to the SubmitHandler and resets the form to its defaults; a failed
// submit keeps the entered values and records an error for every failing
// field. Change and Blur revalidate only the field they name.
package form
