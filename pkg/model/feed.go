package model

import (
	"encoding/json"
	"fmt"
)

type Post struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"usuario_id"`
	AuthorName string    `json:"usuario_nome"`
	AvatarURL  string    `json:"foto_perfil_url,omitempty"`
	Body       string    `json:"conteudo"`
	ImageURL   string    `json:"imagem_url,omitempty"`
	Likes      int       `json:"curtidas"`
	Comments   []Comment `json:"comentarios_lista,omitempty"`
	CreatedAt  Time      `json:"created_at"`
}

// Posts only ever carry the two foto_perfil spellings for the author
// avatar; imagem_url is the post image itself, so the wide avatar variant
// list does not apply here.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64     `json:"id"`
		AuthorID    int64     `json:"usuario_id"`
		AuthorName  string    `json:"usuario_nome"`
		AvatarURL   string    `json:"foto_perfil_url"`
		AvatarShort string    `json:"foto_perfil"`
		Body        string    `json:"conteudo"`
		ImageURL    string    `json:"imagem_url"`
		Likes       int       `json:"curtidas"`
		Comments    []Comment `json:"comentarios_lista"`
		CreatedAt   Time      `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode post: %w", err)
	}
	avatar := NormalizeAvatarURL(raw.AvatarURL)
	if avatar == "" {
		avatar = NormalizeAvatarURL(raw.AvatarShort)
	}
	*p = Post{
		ID:         raw.ID,
		AuthorID:   raw.AuthorID,
		AuthorName: raw.AuthorName,
		AvatarURL:  avatar,
		Body:       raw.Body,
		ImageURL:   raw.ImageURL,
		Likes:      raw.Likes,
		Comments:   raw.Comments,
		CreatedAt:  raw.CreatedAt,
	}
	return nil
}

type Comment struct {
	ID         int64  `json:"id"`
	AuthorID   int64  `json:"usuario_id"`
	AuthorName string `json:"usuario_nome"`
	AvatarURL  string `json:"foto_perfil_url,omitempty"`
	Body       string `json:"conteudo"`
	CreatedAt  Time   `json:"created_at"`
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64  `json:"id"`
		AuthorID    int64  `json:"usuario_id"`
		AuthorName  string `json:"usuario_nome"`
		AvatarURL   string `json:"foto_perfil_url"`
		AvatarShort string `json:"foto_perfil"`
		Body        string `json:"conteudo"`
		CreatedAt   Time   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode comment: %w", err)
	}
	avatar := NormalizeAvatarURL(raw.AvatarURL)
	if avatar == "" {
		avatar = NormalizeAvatarURL(raw.AvatarShort)
	}
	*c = Comment{
		ID:         raw.ID,
		AuthorID:   raw.AuthorID,
		AuthorName: raw.AuthorName,
		AvatarURL:  avatar,
		Body:       raw.Body,
		CreatedAt:  raw.CreatedAt,
	}
	return nil
}

// LikeResult is the backend's answer to a like toggle.
type LikeResult struct {
	Action     string `json:"acao"`
	TotalLikes int    `json:"total_curtidas"`
}

// Liked reports whether the toggle ended with the post liked.
func (r LikeResult) Liked() bool {
	return r.Action == "curtiu"
}

// AdminStats is the moderation dashboard summary.
type AdminStats struct {
	TotalUsers    int `json:"total_usuarios"`
	ActiveUsers   int `json:"usuarios_ativos"`
	BannedUsers   int `json:"usuarios_banidos"`
	TotalPosts    int `json:"total_postagens"`
	TotalComments int `json:"total_comentarios"`
	TotalLikes    int `json:"total_curtidas"`
}
