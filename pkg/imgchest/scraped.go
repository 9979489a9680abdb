package imgchest

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ScrapedPost is a post assembled from a public post page instead of the
// api. It carries a few fields the api does not report, and lacks a few it
// does.
type ScrapedPost struct {
	// The post id.
	ID string `json:"id"`

	// The post title.
	Title string `json:"title"`

	// The name of the user that created the post.
	Username string `json:"username"`

	// Whether the post is nsfw.
	//
	// Only populated when the page embeds a data-page payload.
	Nsfw bool `json:"nsfw"`

	// The number of views.
	Views uint64 `json:"views"`

	// The total number of files in the post, including ones not present
	// in the initial page load.
	ImageCount uint32 `json:"image_count"`

	// The files present in the page.
	Images []ScrapedPostFile `json:"images"`

	// The number of files hidden behind the load-more button, if any.
	ExtraImageCount *uint32 `json:"extra_image_count,omitempty"`

	// The csrf token of the page, needed to request the hidden files.
	Token string `json:"token,omitempty"`
}

// ScrapedPostFile is a file belonging to a scraped post.
type ScrapedPostFile struct {
	// The file id.
	ID string `json:"id"`

	// The file description, if any.
	Description *string `json:"description"`

	// A link to the file content.
	//
	// For videos this is the poster image, see VideoLink.
	Link string `json:"link"`

	// The 1-based position of the file within its post.
	//
	// Only populated when the page embeds a data-page payload.
	Position *uint32 `json:"position,omitempty"`

	// A link to the playable source of an animated file, if any.
	VideoLink *string `json:"video_link,omitempty"`
}

// ParseScrapedPost parses a post page document.
//
// Newer pages embed the post as a JSON payload in a data-page attribute
// while older ones render it directly into the markup. The payload is
// preferred when present.
func ParseScrapedPost(r io.Reader) (*ScrapedPost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	if payload, ok := doc.Find("#app").Attr("data-page"); ok {
		return parseDataPage(payload)
	}

	return parseRenderedPage(doc)
}

// dataPage mirrors the embedded payload of newer post pages.
type dataPage struct {
	Props struct {
		Post struct {
			Files []struct {
				ID          string  `json:"id"`
				Description *string `json:"description"`
				Link        string  `json:"link"`
				Position    uint32  `json:"position"`
			} `json:"files"`
			Nsfw  IntBool `json:"nsfw"`
			Slug  string  `json:"slug"`
			Title string  `json:"title"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
			Views uint64 `json:"views"`
		} `json:"post"`
	} `json:"props"`
}

func parseDataPage(payload string) (*ScrapedPost, error) {
	var page dataPage
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return nil, &InvalidDataPageError{Err: err}
	}

	post := page.Props.Post
	files := make([]ScrapedPostFile, 0, len(post.Files))
	for _, file := range post.Files {
		position := file.Position
		files = append(files, ScrapedPostFile{
			ID:          file.ID,
			Description: file.Description,
			Link:        file.Link,
			Position:    &position,
		})
	}

	return &ScrapedPost{
		ID:         post.Slug,
		Title:      post.Title,
		Username:   post.User.Username,
		Nsfw:       bool(post.Nsfw),
		Views:      post.Views,
		ImageCount: uint32(len(files)),
		Images:     files,
	}, nil
}

func parseRenderedPage(doc *goquery.Document) (*ScrapedPost, error) {
	post := &ScrapedPost{}

	content, ok := doc.Find(`meta[property="og:url"]`).Attr("content")
	if !ok {
		return nil, ErrMissingPostID
	}
	id, ok := strings.CutPrefix(content, SiteBaseURL+"/p/")
	if !ok {
		return nil, ErrMissingPostID
	}
	post.ID = id

	title, ok := doc.Find(`meta[property="og:title"]`).Attr("content")
	if !ok {
		return nil, ErrMissingTitle
	}
	post.Title = strings.TrimSpace(title)

	href, ok := doc.Find(`a[href^="` + SiteBaseURL + `/u/"]`).Attr("href")
	if !ok {
		return nil, ErrMissingUsername
	}
	username, ok := strings.CutPrefix(href, SiteBaseURL+"/u/")
	if !ok {
		return nil, ErrMissingUsername
	}
	post.Username = username

	content, ok = doc.Find(`meta[name="twitter:description"]`).Attr("content")
	if !ok {
		return nil, ErrMissingViews
	}
	views, err := strconv.ParseUint(strings.Split(content, " ")[0], 10, 64)
	if err != nil {
		return nil, &InvalidViewsError{Err: err}
	}
	post.Views = views

	var fileErr error
	doc.Find(`#post-images > div[id^="image"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		file, err := parseFileElement(sel)
		if err != nil {
			fileErr = err
			return false
		}
		post.Images = append(post.Images, file)
		return true
	})
	if fileErr != nil {
		return nil, fileErr
	}

	post.ExtraImageCount = parseExtraCount(doc.Find("#post-images .load-all").First())

	count := uint32(len(post.Images))
	if post.ExtraImageCount != nil {
		count += *post.ExtraImageCount
	}
	post.ImageCount = count

	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok {
		return nil, ErrMissingCSRFToken
	}
	post.Token = token

	return post, nil
}

// ParseScrapedFiles parses an html fragment of per-file elements, as
// returned by the load-all endpoint.
func ParseScrapedFiles(r io.Reader) ([]ScrapedPostFile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var files []ScrapedPostFile
	var fileErr error
	doc.Find("body").Children().EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		file, err := parseFileElement(sel)
		if err != nil {
			fileErr = err
			return false
		}
		files = append(files, file)
		return true
	})
	if fileErr != nil {
		return nil, fileErr
	}

	return files, nil
}

func parseFileElement(sel *goquery.Selection) (ScrapedPostFile, error) {
	var file ScrapedPostFile

	attr, ok := sel.Attr("id")
	if !ok {
		return file, ErrMissingFileID
	}
	parts := strings.Split(attr, "-")
	if len(parts) < 2 {
		return file, ErrMissingFileID
	}
	file.ID = parts[1]

	file.Description = collectDescription(sel.Find(".description-wrapper").First())

	link, ok := sel.Find("a[data-url]").Attr("data-url")
	if !ok {
		return file, ErrMissingFileLink
	}
	file.Link = link

	if src, ok := sel.Find("video source").Attr("src"); ok {
		video := src
		file.VideoLink = &video
	}

	return file, nil
}

// collectDescription joins the text of a description wrapper, dropping the
// literal "Description" label. An empty result means no description.
func collectDescription(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}

	var b strings.Builder
	eachTextNode(sel.Nodes[0], func(text string) bool {
		text = strings.TrimSpace(text)
		if text != "" && text != "Description" {
			b.WriteString(text)
		}
		return true
	})

	if b.Len() == 0 {
		return nil
	}

	description := b.String()
	return &description
}

// parseExtraCount reads the hidden-file count from a load-more button,
// taking the second word of its label. Parse failures leave the count
// unset.
func parseExtraCount(sel *goquery.Selection) *uint32 {
	if sel.Length() == 0 {
		return nil
	}

	var label string
	eachTextNode(sel.Nodes[0], func(text string) bool {
		text = strings.TrimSpace(text)
		if text == "" {
			return true
		}
		label = text
		return false
	})

	parts := strings.Split(label, " ")
	if len(parts) < 2 {
		return nil
	}

	count, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil
	}

	extra := uint32(count)
	return &extra
}

// eachTextNode calls fn for every text node under n in document order,
// stopping early when fn returns false.
func eachTextNode(n *html.Node, fn func(text string) bool) bool {
	if n.Type == html.TextNode {
		return fn(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !eachTextNode(c, fn) {
			return false
		}
	}

	return true
}
