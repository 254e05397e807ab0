// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は POST /register のフォーム入力を表します。
// 必須チェックはユースケース側で行い、失敗時はフラッシュメッセージとしてフォームに戻します。
type RegisterReq struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
