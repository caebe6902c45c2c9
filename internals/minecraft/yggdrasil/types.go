package yggdrasil

// agent identifies the game to the authentication server
type agent struct {
	Name    string `json:"name"`
	Version uint8  `json:"version"`
}

var defaultAgent = agent{Name: "Minecraft", Version: 1}

type authenticateRequest struct {
	Agent       agent  `json:"agent"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ClientToken string `json:"clientToken,omitempty"`
	RequestUser bool   `json:"requestUser"`
}

type tokenPairRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
}

// Profile is one in-game identity linked to the credentials
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the account owner (only present with requestUser)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is the response of a successful authenticate or refresh
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
	// AvailableProfiles lists every profile linked to the credentials.
	// The caller has to disambiguate when there is more than one.
	AvailableProfiles []Profile `json:"availableProfiles"`
	SelectedProfile   *Profile  `json:"selectedProfile"`
	User              *User     `json:"user"`
}

// Profiles returns all profiles of the response, falling back to the
// selected one on servers that omit the availableProfiles list
func (a *AuthResponse) Profiles() []Profile {
	if len(a.AvailableProfiles) != 0 {
		return a.AvailableProfiles
	}
	if a.SelectedProfile != nil {
		return []Profile{*a.SelectedProfile}
	}
	return nil
}
