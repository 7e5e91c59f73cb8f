// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SignupReq は/registerエンドポイントのリクエストボディを表します。
// JSONとmultipart/form-data（プロフィール画像付き）の両方を受け付けます。
// email と username の少なくとも一方が必要です。
type SignupReq struct {
	Email       string `json:"email" form:"email" binding:"omitempty,email"`
	Password    string `json:"password" form:"password" binding:"required,min=8"`
	Username    string `json:"username" form:"username" binding:"omitempty,max=100"`
	FullName    string `json:"full_name" form:"full_name"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Role        string `json:"role" form:"role"`
	FCMToken    string `json:"fcm_token" form:"fcm_token"`
	Platform    string `json:"platform" form:"platform"`
}
