package record

// Category is one of the four fixed cookie categories.
type Category string

// Supported categories. Essential is always enabled.
const (
	Essential  Category = "essential"
	Functional Category = "functional"
	Analytics  Category = "analytics"
	Marketing  Category = "marketing"
)

// ParseCategory constructs a Category from external input.
// Returns ErrUnknownCategory for anything but the four fixed keys.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// IsValid reports whether c is one of the four fixed keys.
func (c Category) IsValid() bool {
	switch c {
	case Essential, Functional, Analytics, Marketing:
		return true
	}
	return false
}

// IsOptional reports whether the visitor may toggle c.
func (c Category) IsOptional() bool {
	return c.IsValid() && c != Essential
}

func (c Category) String() string {
	return string(c)
}

// All returns the four categories in display order.
func All() []Category {
	return []Category{Essential, Functional, Analytics, Marketing}
}

// Optional returns the three user-togglable categories.
func Optional() []Category {
	return []Category{Functional, Analytics, Marketing}
}

// Categories holds the per-category consent flags.
// Essential is always true: every constructor, setter and decoder forces it.
type Categories struct {
	Essential  bool `json:"essential"`
	Functional bool `json:"functional"`
	Analytics  bool `json:"analytics"`
	Marketing  bool `json:"marketing"`
}

// Defaults returns essential-only categories.
func Defaults() Categories {
	return Categories{Essential: true}
}

// AllGranted returns categories with every optional category enabled.
func AllGranted() Categories {
	return Uniform(true)
}

// Uniform returns categories with all optional categories set to v.
// Used to back-fill legacy records that only carry the accepted flag.
func Uniform(v bool) Categories {
	return Categories{Essential: true, Functional: v, Analytics: v, Marketing: v}
}

// Enabled reports whether category c is enabled. Unknown categories are disabled.
func (c Categories) Enabled(cat Category) bool {
	switch cat {
	case Essential:
		return true
	case Functional:
		return c.Functional
	case Analytics:
		return c.Analytics
	case Marketing:
		return c.Marketing
	}
	return false
}

// With returns a copy with category cat set to v.
// Setting Essential or an unknown category returns the categories unchanged.
func (c Categories) With(cat Category, v bool) Categories {
	switch cat {
	case Functional:
		c.Functional = v
	case Analytics:
		c.Analytics = v
	case Marketing:
		c.Marketing = v
	}
	c.Essential = true
	return c
}

// AnyOptional reports whether at least one optional category is enabled.
func (c Categories) AnyOptional() bool {
	return c.Functional || c.Analytics || c.Marketing
}

// Disabled returns the optional categories enabled in prev but disabled in c.
func (c Categories) Disabled(prev Categories) []Category {
	var out []Category
	for _, cat := range Optional() {
		if prev.Enabled(cat) && !c.Enabled(cat) {
			out = append(out, cat)
		}
	}
	return out
}

// Map returns the flags keyed by category name.
func (c Categories) Map() map[string]bool {
	return map[string]bool{
		string(Essential):  true,
		string(Functional): c.Functional,
		string(Analytics):  c.Analytics,
		string(Marketing):  c.Marketing,
	}
}
