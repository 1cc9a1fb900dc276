package domain

// LinkSet is an ordered collection of unique article URLs. Insertion order
// is preserved, so iteration yields links in discovery order. Membership
// checks are constant time.
type LinkSet struct {
	urls []string
	seen map[string]struct{}
}

// NewLinkSet returns an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{
		seen: make(map[string]struct{}),
	}
}

// NewLinkSetFrom builds a LinkSet from urls, keeping the first occurrence
// of each and dropping the rest.
func NewLinkSetFrom(urls []string) *LinkSet {
	s := NewLinkSet()
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add appends url unless it is already present. It reports whether the
// url was added. Empty strings are never added.
func (s *LinkSet) Add(url string) bool {
	if url == "" {
		return false
	}
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
	return true
}

// Contains reports whether url is in the set.
func (s *LinkSet) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Len returns the number of unique urls in the set.
func (s *LinkSet) Len() int {
	return len(s.urls)
}

// URLs returns the urls in insertion order. The returned slice is a copy
// and may be modified freely.
func (s *LinkSet) URLs() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}
