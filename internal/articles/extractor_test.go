package articles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/articles"
	"github.com/zcrawl/zcrawl/internal/domain"
	"github.com/zcrawl/zcrawl/internal/sources"
)

const articleURL = "https://znews.vn/hlv-moi-ra-mat-post123.html"

// articlePage assembles a stock article page from its pieces.
func articlePage(title, summary, bodyHTML string) string {
	page := `<html><body>`
	if title != "" {
		page += `<h1 class="the-article-title">` + title + `</h1>`
	}
	if summary != "" {
		page += `<p class="the-article-summary">` + summary + `</p>`
	}
	if bodyHTML != "" {
		page += `<div class="the-article-body">` + bodyHTML + `</div>`
	}
	return page + `</body></html>`
}

func photoBlock(caption string, srcs ...string) string {
	block := `<div class="z-photoviewer-wrapper">`
	for _, src := range srcs {
		block += `<div class="pic"><img src="` + src + `"></div>`
	}
	return block + `<em>` + caption + `</em></div>`
}

func newExtractor() *articles.Extractor {
	return articles.NewExtractor(sources.ArticleSelectors{}, nil)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	page := articlePage(
		"  HLV mới ra mắt  ",
		"Tóm tắt trận đấu.",
		`<p>Đoạn một của bài viết.</p>`+
			photoBlock("Chú thích ảnh", "https://img.znews.vn/anh-1.jpg")+
			`<p>Đoạn hai của bài viết.</p>`,
	)

	article, err := newExtractor().Extract(page, articleURL)
	require.NoError(t, err)

	assert.Equal(t, articleURL, article.URL)
	assert.Equal(t, "HLV mới ra mắt", article.Title)
	assert.Equal(t,
		"Tóm tắt trận đấu.\nĐoạn một của bài viết.\nĐoạn hai của bài viết.",
		article.Content)
	assert.Equal(t, []domain.Image{{
		URL:     "https://img.znews.vn/anh-1.jpg",
		Caption: "Chú thích ảnh",
	}}, article.Metadata.Images)
}

func TestExtractMissingTitle(t *testing.T) {
	t.Parallel()

	page := articlePage("", "Tóm tắt.", `<p>Nội dung.</p>`)

	_, err := newExtractor().Extract(page, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrFieldMissing)
	assert.ErrorContains(t, err, "title")
}

func TestExtractMissingBody(t *testing.T) {
	t.Parallel()

	page := articlePage("Tiêu đề", "Tóm tắt.", "")

	_, err := newExtractor().Extract(page, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrFieldMissing)
	assert.ErrorContains(t, err, "body")
}

func TestExtractMissingSummaryDegrades(t *testing.T) {
	t.Parallel()

	page := articlePage("Tiêu đề", "", `<p>Chỉ có đoạn này.</p>`)

	article, err := newExtractor().Extract(page, articleURL)
	require.NoError(t, err)
	assert.Equal(t, "Chỉ có đoạn này.", article.Content)
}

func TestExtractOnlyDirectParagraphs(t *testing.T) {
	t.Parallel()

	page := articlePage("Tiêu đề", "Tóm tắt.",
		`<p>Đoạn trực tiếp.</p>`+
			`<figure><p>Chú thích lồng trong hình.</p></figure>`+
			`<p>   </p>`+
			`<div><p>Đoạn lồng trong div.</p></div>`)

	article, err := newExtractor().Extract(page, articleURL)
	require.NoError(t, err)
	assert.Equal(t, "Tóm tắt.\nĐoạn trực tiếp.", article.Content)
}

func TestExtractJoinsMultipleImageSources(t *testing.T) {
	t.Parallel()

	page := articlePage("Tiêu đề", "Tóm tắt.",
		`<p>Nội dung.</p>`+
			photoBlock("Bộ ảnh",
				"https://img.znews.vn/1.jpg",
				"https://img.znews.vn/2.jpg"))

	article, err := newExtractor().Extract(page, articleURL)
	require.NoError(t, err)
	require.Len(t, article.Metadata.Images, 1)
	assert.Equal(t,
		"https://img.znews.vn/1.jpg, https://img.znews.vn/2.jpg",
		article.Metadata.Images[0].URL)
	assert.Equal(t, "Bộ ảnh", article.Metadata.Images[0].Caption)
}

func TestExtractDropsImageBlocksWithoutSources(t *testing.T) {
	t.Parallel()

	page := articlePage("Tiêu đề", "Tóm tắt.",
		`<p>Nội dung.</p>`+
			`<div class="z-photoviewer-wrapper"><div class="pic"><img></div></div>`+
			photoBlock("Có nguồn", "https://img.znews.vn/ok.jpg"))

	article, err := newExtractor().Extract(page, articleURL)
	require.NoError(t, err)
	require.Len(t, article.Metadata.Images, 1)
	assert.Equal(t, "https://img.znews.vn/ok.jpg", article.Metadata.Images[0].URL)
}

func TestExtractCustomSelectors(t *testing.T) {
	t.Parallel()

	extractor := articles.NewExtractor(sources.ArticleSelectors{
		Title: ".headline",
		Body:  ".story",
	}, nil)

	page := `<html><body><h2 class="headline">Khác</h2>` +
		`<p class="the-article-summary">Tóm tắt.</p>` +
		`<div class="story"><p>Thân bài.</p></div></body></html>`

	article, err := extractor.Extract(page, articleURL)
	require.NoError(t, err)
	assert.Equal(t, "Khác", article.Title)
	assert.Equal(t, "Tóm tắt.\nThân bài.", article.Content)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := &domain.Article{
		URL:     articleURL,
		Title:   "Tiêu đề",
		Content: "Nội dung.",
	}
	assert.NoError(t, articles.Validate(valid, articleURL))

	blankTitle := &domain.Article{URL: articleURL, Title: "   ", Content: "Nội dung."}
	err := articles.Validate(blankTitle, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrValidation)
	assert.ErrorContains(t, err, "title")

	blankContent := &domain.Article{URL: articleURL, Title: "Tiêu đề"}
	err = articles.Validate(blankContent, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrValidation)
	assert.ErrorContains(t, err, "content")

	mismatched := &domain.Article{
		URL:     "https://znews.vn/khac-post999.html",
		Title:   "Tiêu đề",
		Content: "Nội dung.",
	}
	err = articles.Validate(mismatched, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrValidation)

	err = articles.Validate(nil, articleURL)
	require.Error(t, err)
	assert.ErrorIs(t, err, articles.ErrValidation)
}
