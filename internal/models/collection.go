package models

// Collection is the on-chain collection a template is created under.
type Collection struct {
	Name               string   `json:"collection_name"`
	Author             string   `json:"author"`
	AuthorizedAccounts []string `json:"authorized_accounts"`
}

// IsAuthorized reports whether account may create templates in the collection:
// the collection author or any explicitly authorized account.
func (c Collection) IsAuthorized(account string) bool {
	if account == "" {
		return false
	}
	if account == c.Author {
		return true
	}
	for _, authorized := range c.AuthorizedAccounts {
		if account == authorized {
			return true
		}
	}
	return false
}
