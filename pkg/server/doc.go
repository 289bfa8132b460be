// Package server mounts a form on an echo instance: GET renders it, POST
// decodes the submission into a fresh form.Form, validates it and either
// re-renders with inline errors or shows the success page.
package server
