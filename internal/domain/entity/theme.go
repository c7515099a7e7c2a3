package entity

type Theme struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Colors       ThemeColors     `json:"colors"`
	Typography   ThemeTypography `json:"typography"`
	Spacing      ThemeSpacing    `json:"spacing"`
	BorderRadius ThemeRadii      `json:"borderRadius"`
	Shadows      ThemeShadows    `json:"shadows"`
}

type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Error         string `json:"error"`
	Success       string `json:"success"`
}

type ThemeTypography struct {
	FontFamily FontFamily `json:"fontFamily"`
	FontSize   FontSize   `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"`
}

type FontFamily struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type FontSize struct {
	XS   string `json:"xs"`
	SM   string `json:"sm"`
	Base string `json:"base"`
	LG   string `json:"lg"`
	XL   string `json:"xl"`
	XL2  string `json:"2xl"`
	XL3  string `json:"3xl"`
	XL4  string `json:"4xl"`
}

type FontWeight struct {
	Normal   int `json:"normal"`
	Medium   int `json:"medium"`
	Semibold int `json:"semibold"`
	Bold     int `json:"bold"`
}

type ThemeSpacing struct {
	Unit      int            `json:"unit"`
	Container ThemeContainer `json:"container"`
}

type ThemeContainer struct {
	MaxWidth string `json:"maxWidth"`
	Padding  string `json:"padding"`
}

type ThemeRadii struct {
	SM   string `json:"sm"`
	Base string `json:"base"`
	LG   string `json:"lg"`
	Full string `json:"full"`
}

type ThemeShadows struct {
	SM   string `json:"sm"`
	Base string `json:"base"`
	LG   string `json:"lg"`
}

const DefaultThemeID = "theme-default"

// DefaultTheme is used whenever a site has no theme or its theme row is gone.
// It holds no timestamps so repeated publishes serialize identically.
func DefaultTheme() Theme {
	return Theme{
		ID:   DefaultThemeID,
		Name: "Default Theme",
		Colors: ThemeColors{
			Primary:       "#3b82f6",
			Secondary:     "#8b5cf6",
			Accent:        "#f59e0b",
			Background:    "#ffffff",
			Surface:       "#f9fafb",
			Text:          "#111827",
			TextSecondary: "#6b7280",
			Border:        "#e5e7eb",
			Error:         "#ef4444",
			Success:       "#10b981",
		},
		Typography: ThemeTypography{
			FontFamily: FontFamily{
				Heading: "Inter, system-ui, sans-serif",
				Body:    "Inter, system-ui, sans-serif",
			},
			FontSize: FontSize{
				XS:   "0.75rem",
				SM:   "0.875rem",
				Base: "1rem",
				LG:   "1.125rem",
				XL:   "1.25rem",
				XL2:  "1.5rem",
				XL3:  "1.875rem",
				XL4:  "2.25rem",
			},
			FontWeight: FontWeight{
				Normal:   400,
				Medium:   500,
				Semibold: 600,
				Bold:     700,
			},
		},
		Spacing: ThemeSpacing{
			Unit: 4,
			Container: ThemeContainer{
				MaxWidth: "1280px",
				Padding:  "1rem",
			},
		},
		BorderRadius: ThemeRadii{
			SM:   "0.25rem",
			Base: "0.5rem",
			LG:   "1rem",
			Full: "9999px",
		},
		Shadows: ThemeShadows{
			SM:   "0 1px 2px 0 rgba(0, 0, 0, 0.05)",
			Base: "0 4px 6px -1px rgba(0, 0, 0, 0.1)",
			LG:   "0 10px 15px -3px rgba(0, 0, 0, 0.1)",
		},
	}
}
