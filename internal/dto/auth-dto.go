package dto

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserPublicDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Cargo    string `json:"cargo"`
	Role     string `json:"role"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"accessToken"`
	ExpiresIn   int64         `json:"expiresIn"`
	User        UserPublicDTO `json:"user"`
}
