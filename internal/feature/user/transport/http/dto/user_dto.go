// Package dto はuserフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// UpdateProfileReq はPUT /api/users/me のリクエストです。JSONとmultipart/form-dataの両方を受け付けます。
type UpdateProfileReq struct {
	FullName    *string `json:"full_name" form:"full_name"`
	PhoneNumber *string `json:"phone_number" form:"phone_number"`
}

// RegisterDeviceReq はPOST /api/users/fcm-token のリクエストです。
// 旧クライアント互換のため fcmToken も受け付けます。
type RegisterDeviceReq struct {
	FCMToken       string `json:"fcm_token"`
	LegacyFCMToken string `json:"fcmToken"`
	Platform       string `json:"platform"`
}

// Token は新旧どちらかのフィールドで送られたトークンを返します。
func (r RegisterDeviceReq) Token() string {
	if r.FCMToken != "" {
		return r.FCMToken
	}
	return r.LegacyFCMToken
}
