package env

// Kind is the deployment tier the process runs in. Unknown is returned for
// any value other than the three recognised literals.
type Kind int

const (
	Unknown Kind = iota
	Development
	Preview
	Production
)

const Variable = "APP_ENV"

func Parse(s string) Kind {
	switch s {
	case "development":
		return Development
	case "preview":
		return Preview
	case "production":
		return Production
	default:
		return Unknown
	}
}

func (k Kind) IsDevelopment() bool { return k == Development }
func (k Kind) IsPreview() bool     { return k == Preview }
func (k Kind) IsProduction() bool  { return k == Production }

func (k Kind) String() string {
	switch k {
	case Development:
		return "development"
	case Preview:
		return "preview"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}
