// Package dto はmessageフィーチャーのリクエストDTOを定義します。
package dto

// SendMessageReq はメッセージ送信リクエストです。
// 旧クライアントの receiverEmail も受け付けます。
type SendMessageReq struct {
	Title               string `json:"title"`
	Body                string `json:"body"`
	ReceiverEmail       string `json:"receiver_email"`
	LegacyReceiverEmail string `json:"receiverEmail"`
}

// Receiver は指定された宛先メールアドレスを返します。
func (r SendMessageReq) Receiver() string {
	if r.ReceiverEmail != "" {
		return r.ReceiverEmail
	}
	return r.LegacyReceiverEmail
}
