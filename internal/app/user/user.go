/*
Package user contains the identity of the signed-in account.

Identity is what the session store persists under the "user" key and what the
domain caches compare to decide whether a fetched value still belongs to the
current session.
*/
package user

// Identity is the account the client is acting as.
type Identity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	NickName string `json:"nickName,omitempty"`
	Role     string `json:"role"`
}

// DisplayName is the nickname when one is set, otherwise the name.
func (i Identity) DisplayName() string {
	if i.NickName != "" {
		return i.NickName
	}
	return i.Name
}

// Valid reports whether the identity carries an account ID.
func (i Identity) Valid() bool {
	return i.ID > 0
}

// Same reports whether two identities refer to the same account.
func (i Identity) Same(other Identity) bool {
	return i.ID == other.ID
}
