package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// ログインキーとして email か username のどちらかを指定します。
type LoginReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// LoginKey はemailを優先してログインキーを返します。
func (r LoginReq) LoginKey() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// BiometricLoginReq は/login/biometricエンドポイントのリクエストボディです。
// 旧クライアントの biometricToken も受け付けます。
type BiometricLoginReq struct {
	BiometricToken       string `json:"biometric_token"`
	LegacyBiometricToken string `json:"biometricToken"`
}

// Token は biometric_token を優先してトークンを返します。
func (r BiometricLoginReq) Token() string {
	if r.BiometricToken != "" {
		return r.BiometricToken
	}
	return r.LegacyBiometricToken
}

// BiometricToggleReq は生体認証の有効/無効を切り替えるリクエストボディです。
// falseを明示的に受け付けるためポインタにしています。
type BiometricToggleReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
