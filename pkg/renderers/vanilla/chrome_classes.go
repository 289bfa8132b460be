package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage        ChromeClass = "dynform-page"
	ClassForm        ChromeClass = "dynform-form"
	ClassHeader      ChromeClass = "dynform-header"
	ClassFields      ChromeClass = "dynform-fields"
	ClassField       ChromeClass = "dynform-field"
	ClassLabel       ChromeClass = "dynform-label"
	ClassDescription ChromeClass = "dynform-description"
	ClassFieldError  ChromeClass = "dynform-error"
	ClassActions     ChromeClass = "dynform-actions"
	ClassErrors      ChromeClass = "dynform-errors"
	ClassSuccess     ChromeClass = "dynform-success"
)

// ChromeClasses overrides the class list of the form chrome. Empty entries
// fall back to the defaults above.
type ChromeClasses struct {
	Form    string `json:"form"`
	Header  string `json:"header"`
	Fields  string `json:"fields"`
	Actions string `json:"actions"`
	Errors  string `json:"errors"`
}

func (c ChromeClasses) withDefaults() ChromeClasses {
	if c.Form == "" {
		c.Form = string(ClassForm)
	}
	if c.Header == "" {
		c.Header = string(ClassHeader)
	}
	if c.Fields == "" {
		c.Fields = string(ClassFields)
	}
	if c.Actions == "" {
		c.Actions = string(ClassActions)
	}
	if c.Errors == "" {
		c.Errors = string(ClassErrors)
	}
	return c
}
