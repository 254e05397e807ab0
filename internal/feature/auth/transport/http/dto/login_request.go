package dto

// LoginReq は POST /login のフォーム入力を表します。
type LoginReq struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
