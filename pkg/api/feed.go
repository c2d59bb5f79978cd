package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/networkup/netup/pkg/model"
)

// Feed loads the public post feed. No token needed.
func (c *Client) Feed(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	if err := c.get(ctx, "/posts/feed", &out); err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return out, nil
}

// CreatePost publishes a post, optionally attaching a photo from disk. The
// backend takes multipart form data here, not JSON.
func (c *Client) CreatePost(ctx context.Context, content, photoPath string) (model.Post, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("conteudo", content); err != nil {
		return model.Post{}, fmt.Errorf("build post form: %w", err)
	}
	if photoPath != "" {
		if err := attachFile(form, "photo", photoPath); err != nil {
			return model.Post{}, err
		}
	}
	if err := form.Close(); err != nil {
		return model.Post{}, fmt.Errorf("build post form: %w", err)
	}

	token := c.tokens.AccessToken()
	if token == "" {
		return model.Post{}, fmt.Errorf("%w: no access token", ErrAuth)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts/postar", &buf)
	if err != nil {
		return model.Post{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.Post{}, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return model.Post{}, fmt.Errorf("%w: %s", ErrRejected, env.Message)
	}
	var post model.Post
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &post); err != nil {
			return model.Post{}, fmt.Errorf("decode payload: %w", err)
		}
	}
	return post, nil
}

func attachFile(form *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	part, err := form.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build post form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	return nil
}

// DeletePost removes a post. The backend double-checks the requesting user
// against the post's author (or admin role).
func (c *Client) DeletePost(ctx context.Context, postID, userID int64) error {
	in := struct {
		UserID int64 `json:"usuario_id"`
	}{userID}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/deletar/%d", postID), true, in, nil); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ToggleLike flips the user's like on a post and returns the new total.
func (c *Client) ToggleLike(ctx context.Context, postID int64) (model.LikeResult, error) {
	in := struct {
		PostID int64 `json:"postagem_id"`
	}{postID}
	var out model.LikeResult
	if err := c.authPost(ctx, "/posts/curtir", in, &out); err != nil {
		return model.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}
	return out, nil
}

// AddComment appends a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID int64, content string) error {
	in := struct {
		PostID int64  `json:"postagem_id"`
		Body   string `json:"conteudo"`
	}{postID, content}
	if err := c.authPost(ctx, "/posts/comentar", in, nil); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}
