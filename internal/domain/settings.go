package domain

// Settings is the single persisted settings record. It is merged on save
// (shallow field overwrite) and only ever reset to defaults, never deleted.
type Settings struct {
	DefaultAccount  string   `json:"defaultAccount"`
	DefaultDomain   string   `json:"defaultDomain"`
	SelectedDomains []string `json:"selectedDomains"`
	SystemAliases   []string `json:"systemAliases"`
	HiddenUsers     []string `json:"hiddenUsers"`
	HiddenDomains   []string `json:"hiddenDomains"`
	SpamEmail       string   `json:"spamEmail"`
	CustomSpamEmail string   `json:"customSpamEmail,omitempty"`
	IsFirstRun      bool     `json:"isFirstRun"`
	APIToken        string   `json:"apiToken,omitempty"`
}

// DefaultSettings returns the settings record used before anything is
// persisted.
func DefaultSettings() Settings {
	return Settings{
		SelectedDomains: []string{},
		SystemAliases:   []string{},
		HiddenUsers:     []string{},
		HiddenDomains:   []string{},
		IsFirstRun:      true,
	}
}

// SpamAddress returns the authoritative spam target: a non-empty custom
// override wins over the selected spam account.
func (s Settings) SpamAddress() string {
	if s.CustomSpamEmail != "" {
		return s.CustomSpamEmail
	}
	return s.SpamEmail
}

// IsSpamTarget reports whether addr is the configured spam address.
func (s Settings) IsSpamTarget(addr string) bool {
	spam := s.SpamAddress()
	return spam != "" && addr == spam
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged;
// non-nil fields overwrite the stored value.
type SettingsPatch struct {
	DefaultAccount  *string
	DefaultDomain   *string
	SelectedDomains *[]string
	SystemAliases   *[]string
	HiddenUsers     *[]string
	HiddenDomains   *[]string
	SpamEmail       *string
	CustomSpamEmail *string
	IsFirstRun      *bool
	APIToken        *string
}

// Apply overwrites the fields of s that the patch provides.
func (p SettingsPatch) Apply(s *Settings) {
	if p.DefaultAccount != nil {
		s.DefaultAccount = *p.DefaultAccount
	}
	if p.DefaultDomain != nil {
		s.DefaultDomain = *p.DefaultDomain
	}
	if p.SelectedDomains != nil {
		s.SelectedDomains = *p.SelectedDomains
	}
	if p.SystemAliases != nil {
		s.SystemAliases = *p.SystemAliases
	}
	if p.HiddenUsers != nil {
		s.HiddenUsers = *p.HiddenUsers
	}
	if p.HiddenDomains != nil {
		s.HiddenDomains = *p.HiddenDomains
	}
	if p.SpamEmail != nil {
		s.SpamEmail = *p.SpamEmail
	}
	if p.CustomSpamEmail != nil {
		s.CustomSpamEmail = *p.CustomSpamEmail
	}
	if p.IsFirstRun != nil {
		s.IsFirstRun = *p.IsFirstRun
	}
	if p.APIToken != nil {
		s.APIToken = *p.APIToken
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }
