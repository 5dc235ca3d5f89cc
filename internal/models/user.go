package models

// AuthUser 当前登录用户
type AuthUser struct {
	ID         ID       `json:"id"`
	Email      string   `json:"email"`
	FullName   string   `json:"fullName"`
	Roles      []string `json:"roles"`
	CustomerID ID       `json:"customerId"`
}

// HasRole 判断是否拥有角色
func (u *AuthUser) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthResponse 登录/注册返回
type AuthResponse struct {
	TokenType                   string   `json:"tokenType"`
	AccessToken                 string   `json:"accessToken"`
	AccessTokenExpiresInSeconds int64    `json:"accessTokenExpiresInSeconds"`
	RefreshToken                string   `json:"refreshToken"`
	User                        AuthUser `json:"user"`
}

// RegisterInput 注册请求体
type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// CustomerProfile 客户资料
type CustomerProfile struct {
	ID       ID     `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// AdminUser 管理端用户视图
type AdminUser struct {
	ID                    ID       `json:"id"`
	Email                 string   `json:"email"`
	FullName              string   `json:"fullName"`
	Roles                 []string `json:"roles"`
	Enabled               *bool    `json:"enabled,omitempty"`
	AccountNonLocked      *bool    `json:"accountNonLocked,omitempty"`
	AccountNonExpired     *bool    `json:"accountNonExpired,omitempty"`
	CredentialsNonExpired *bool    `json:"credentialsNonExpired,omitempty"`
	CreatedAt             string   `json:"createdAt,omitempty"`
	UpdatedAt             string   `json:"updatedAt,omitempty"`
}

// AdminUserUpdateInput 管理端更新用户请求体
type AdminUserUpdateInput struct {
	FullName string   `json:"fullName,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Enabled  *bool    `json:"enabled,omitempty"`
}
