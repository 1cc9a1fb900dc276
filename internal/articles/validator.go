package articles

import (
	"fmt"

	"github.com/zcrawl/zcrawl/internal/domain"
)

// Validate enforces the article record invariants: the url must match the
// link the record was extracted from, and title and content must be
// non-blank. A record failing validation is a content failure, never a
// partial success.
func Validate(article *domain.Article, url string) error {
	if article == nil {
		return fmt.Errorf("%w: no article extracted", ErrValidation)
	}
	if article.URL != url {
		return fmt.Errorf("%w: record url %q does not match source link %q",
			ErrValidation, article.URL, url)
	}
	if !article.HasTitle() {
		return fmt.Errorf("%w: blank title", ErrValidation)
	}
	if !article.HasContent() {
		return fmt.Errorf("%w: blank content", ErrValidation)
	}
	return nil
}
