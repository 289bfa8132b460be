package components

// Field is the view of a FieldSpec bound to its current value and error, in the
// shape component templates consume.
type Field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	ID          string   `json:"id"`
	LabelID     string   `json:"labelId"`
	ErrorID     string   `json:"errorId,omitempty"`
	DescribedBy string   `json:"describedBy,omitempty"`
	Value       string   `json:"value"`
	Checked     bool     `json:"checked"`
	Required    bool     `json:"required"`
	Invalid     bool     `json:"invalid"`
	Options     []Option `json:"options,omitempty"`
}

// Option is one choice of a select or radio field.
type Option struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}
