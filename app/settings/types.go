package settings

type SiteSettings struct {
	SiteName        string        `yaml:"site_name" json:"site_name"`
	SiteDescription string        `yaml:"site_description" json:"site_description"`
	ContactEmail    string        `yaml:"contact_email" json:"contact_email"`
	SocialMedia     SocialLinks   `yaml:"social_media" json:"social_media"`
	Content         ContentPolicy `yaml:"content" json:"content"`
}

type SocialLinks struct {
	Facebook  string `yaml:"facebook" json:"facebook"`
	Twitter   string `yaml:"twitter" json:"twitter"`
	Instagram string `yaml:"instagram" json:"instagram"`
	LinkedIn  string `yaml:"linkedin" json:"linkedin"`
	YouTube   string `yaml:"youtube" json:"youtube"`
}

type ContentPolicy struct {
	AutoApproveComments bool   `yaml:"auto_approve_comments" json:"auto_approve_comments"`
	MaxNewsPerDay       int    `yaml:"max_news_per_day" json:"max_news_per_day"`
	DefaultCategory     string `yaml:"default_category" json:"default_category"`
}

type SiteInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
}

func Defaults() SiteSettings {
	return SiteSettings{
		SiteName:        "Impacto Diário",
		SiteDescription: "Portal de notícias com foco em informações relevantes e atualizadas",
		ContactEmail:    "contato@impactodiario.com",
		Content: ContentPolicy{
			AutoApproveComments: false,
			MaxNewsPerDay:       10,
			DefaultCategory:     "politica",
		},
	}
}
