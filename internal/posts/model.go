package posts

import "time"

// Post é o modelo persistido na tabela posts.
// ImagePath aponta para um arquivo que existe enquanto a linha existir.
type Post struct {
	ID        string
	UserID    string
	UserName  string
	Caption   string
	ImageURL  string
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Created é a projeção devolvida na criação
type Created struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
	UserName string `json:"user_name"`
}

// View é a projeção pública de leitura (sem image_path)
type View struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Caption   string `json:"caption"`
	ImageURL  string `json:"image_url"`
	CreatedAt int64  `json:"created_at"` // unix seconds
}

func (p *Post) Created() Created {
	return Created{ID: p.ID, ImageURL: p.ImageURL, Caption: p.Caption, UserName: p.UserName}
}

func (p *Post) View() View {
	return View{
		ID:        p.ID,
		UserID:    p.UserID,
		UserName:  p.UserName,
		Caption:   p.Caption,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.Unix(),
	}
}

// Views converte uma lista preservando a ordem
func Views(list []Post) []View {
	out := make([]View, 0, len(list))
	for i := range list {
		out = append(out, list[i].View())
	}
	return out
}
