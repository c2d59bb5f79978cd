package model

import "strings"

// avatarFields collects every field name upstream providers have been seen
// using for a profile picture. Embedded in the raw decode structs so every
// ingress path normalizes to one canonical URL.
type avatarFields struct {
	FotoPerfilURL   string `json:"foto_perfil_url"`
	FotoPerfilURLCc string `json:"foto_perfilUrl"`
	FotoPerfil      string `json:"foto_perfil"`
	FotoPerfilCc    string `json:"fotoPerfil"`
	AvatarSnake     string `json:"avatar_url"`
	AvatarCc        string `json:"avatarUrl"`
	Avatar          string `json:"avatar"`
	Picture         string `json:"picture"`
	PictureURL      string `json:"pictureUrl"`
	ProfileSnake    string `json:"profile_picture"`
	ProfileCc       string `json:"profilePicture"`
	Photo           string `json:"photo"`
	PhotoURL        string `json:"photoUrl"`
	ImagemSnake     string `json:"imagem_url"`
	ImagemCc        string `json:"imagemUrl"`
	Imagem          string `json:"imagem"`
}

// pick returns the first usable candidate, normalized.
func (f avatarFields) pick() string {
	for _, raw := range []string{
		f.FotoPerfilURL, f.FotoPerfilURLCc, f.FotoPerfil, f.FotoPerfilCc,
		f.AvatarSnake, f.AvatarCc, f.Avatar,
		f.Picture, f.PictureURL,
		f.ProfileSnake, f.ProfileCc,
		f.Photo, f.PhotoURL,
		f.ImagemSnake, f.ImagemCc, f.Imagem,
	} {
		if url := NormalizeAvatarURL(raw); url != "" {
			return url
		}
	}
	return ""
}

// NormalizeAvatarURL trims and upgrades plain-http and scheme-relative URLs
// to https, so embedding them never trips mixed-content blocking.
func NormalizeAvatarURL(raw string) string {
	url := strings.TrimSpace(raw)
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "http://"):
		return "https://" + strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "//"):
		return "https:" + url
	}
	return url
}
