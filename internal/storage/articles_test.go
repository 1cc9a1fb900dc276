package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/storage"
)

func TestFileArticleWriterSave(t *testing.T) {
	root := t.TempDir()

	w, err := storage.NewFileArticleWriter(root, "bong_da")
	require.NoError(t, err)

	article := &domain.Article{
		URL:     "https://znews.vn/tran-dau-post123.html",
		Title:   "Trận đấu đêm qua",
		Content: "Tóm tắt trận đấu\nHiệp một diễn ra chậm",
		Metadata: domain.Metadata{
			Images: []domain.Image{
				{URL: "https://img.znews.vn/1.jpg, https://img.znews.vn/2.jpg", Caption: "Bàn thắng mở tỷ số"},
			},
		},
	}

	path, err := w.Save(article, 7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bong_da", "7.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "\"title\": \"Trận đấu đêm qua\"")
	assert.Contains(t, text, "    \"url\"")
	assert.NotContains(t, text, "\\u")
}

func TestFileArticleWriterRoundTrip(t *testing.T) {
	w, err := storage.NewFileArticleWriter(t.TempDir(), "giao_duc")
	require.NoError(t, err)

	article := &domain.Article{
		URL:     "https://lifestyle.znews.vn/tuyen-sinh-post9.html",
		Title:   "Tuyển sinh 2024",
		Content: "Nội dung",
	}

	path, err := w.Save(article, 0)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.Article
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *article, got)
}

func TestFileArticleWriterNextIndex(t *testing.T) {
	root := t.TempDir()

	w, err := storage.NewFileArticleWriter(root, "bong_da")
	require.NoError(t, err)

	next, err := w.NextIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	_, err = w.Save(&domain.Article{URL: "https://znews.vn/a.html", Title: "A", Content: "x"}, 0)
	require.NoError(t, err)
	_, err = w.Save(&domain.Article{URL: "https://znews.vn/b.html", Title: "B", Content: "y"}, 4)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(w.Dir(), "notes.txt"), []byte("x"), 0o644))

	next, err = w.NextIndex()
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}

func TestFileArticleWriterIndentation(t *testing.T) {
	w, err := storage.NewFileArticleWriter(t.TempDir(), "bong_da")
	require.NoError(t, err)

	path, err := w.Save(&domain.Article{URL: "https://znews.vn/a.html", Title: "A", Content: "x"}, 1)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[1], "    \""))
}
