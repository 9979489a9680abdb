package imgchest

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderedPostPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content=" Donkey Kong - Video Game From The Mid 80's ">
<meta name="twitter:description" content="198 views and 0 comments">
<meta name="csrf-token" content="page-csrf-token">
</head>
<body>
<div class="post-header">
<a href="https://imgchest.com/u/LunarLandr">LunarLandr</a>
</div>
<div id="post-images">
<div id="image-nw7w6cmlvye" class="post-image">
<a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png" href="#"><img src="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a>
<div class="description-wrapper">
<p>Description</p>
<p>Released in the arcades in 1981, Donkey Kong was not Nintendo's first video game, but it was their first broad success</p>
</div>
</div>
<div id="image-kwye3cpag4b" class="post-image">
<a data-url="https://cdn.imgchest.com/files/kwye3cpag4b.png" href="#"><img src="https://cdn.imgchest.com/files/kwye3cpag4b.png"></a>
<div class="description-wrapper">
<p>Description</p>
<p>amstrad - apple ii - atari - colecovision - c64 - msx
nes - pc - vic-20 - spectrum - tI-99 4A - arcade</p>
</div>
</div>
<div id="image-5g4z9c8ok72" class="post-image">
<a data-url="https://cdn.imgchest.com/files/5g4z9c8ok72.png" href="#"><img src="https://cdn.imgchest.com/files/5g4z9c8ok72.png"></a>
</div>
<button class="load-all">
Load 1 More Files
</button>
</div>
</body>
</html>`

const videoPostPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:url" content="https://imgchest.com/p/pwl7lgepyx2">
<meta property="og:title" content="PDN AGIF Issue #1">
<meta name="twitter:description" content="1 view">
<meta name="csrf-token" content="video-csrf-token">
</head>
<body>
<a href="https://imgchest.com/u/Jacob">Jacob</a>
<div id="post-images">
<div id="image-6yxkcz5ml7w" class="post-image">
<a data-url="https://cdn.imgchest.com/files/6yxkcz5ml7w.gif" href="#"></a>
<video><source src="https://cdn.imgchest.com/files/6yxkcz5ml7w.mp4" type="video/mp4"></video>
</div>
</div>
</body>
</html>`

const loadAllFragment = `<div id="image-we4gdcv5j4r" class="post-image">
<a data-url="https://cdn.imgchest.com/files/we4gdcv5j4r.jpg" href="#"></a>
</div>`

const dataPageJSON = `{
	"props": {
		"post": {
			"files": [
				{"id": "nw7w6cmlvye", "description": "first image", "link": "https://cdn.imgchest.com/files/nw7w6cmlvye.png", "position": 1},
				{"id": "kwye3cpag4b", "description": null, "link": "https://cdn.imgchest.com/files/kwye3cpag4b.png", "position": 2}
			],
			"nsfw": 1,
			"slug": "3qe4gdvj4j2",
			"title": "Donkey Kong - Video Game From The Mid 80's",
			"user": {"username": "LunarLandr"},
			"views": 198
		}
	}
}`

func dataPagePost(payload string) string {
	return `<!DOCTYPE html><html><body><div id="app" data-page="` + html.EscapeString(payload) + `"></div></body></html>`
}

func minimalPage(head, body string) string {
	return "<html><head>" + head + "</head><body>" + body + "</body></html>"
}

func TestParseScrapedPostRendered(t *testing.T) {
	post, err := ParseScrapedPost(strings.NewReader(renderedPostPage))
	require.NoError(t, err)

	assert.Equal(t, "3qe4gdvj4j2", post.ID)
	assert.Equal(t, "Donkey Kong - Video Game From The Mid 80's", post.Title)
	assert.Equal(t, "LunarLandr", post.Username)
	assert.False(t, post.Nsfw)
	assert.Equal(t, uint64(198), post.Views)
	assert.Equal(t, "page-csrf-token", post.Token)

	require.NotNil(t, post.ExtraImageCount)
	assert.Equal(t, uint32(1), *post.ExtraImageCount)
	assert.Equal(t, uint32(4), post.ImageCount)
	assert.Equal(t, uint32(len(post.Images))+*post.ExtraImageCount, post.ImageCount)

	require.Len(t, post.Images, 3)

	first := post.Images[0]
	assert.Equal(t, "nw7w6cmlvye", first.ID)
	assert.Equal(t, "https://cdn.imgchest.com/files/nw7w6cmlvye.png", first.Link)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Released in the arcades in 1981, Donkey Kong was not Nintendo's first video game, but it was their first broad success", *first.Description)
	assert.Nil(t, first.Position)
	assert.Nil(t, first.VideoLink)

	second := post.Images[1]
	assert.Equal(t, "kwye3cpag4b", second.ID)
	require.NotNil(t, second.Description)
	assert.Equal(t, `amstrad - apple ii - atari - colecovision - c64 - msx
nes - pc - vic-20 - spectrum - tI-99 4A - arcade`, *second.Description)

	third := post.Images[2]
	assert.Equal(t, "5g4z9c8ok72", third.ID)
	assert.Nil(t, third.Description)
}

func TestParseScrapedPostVideo(t *testing.T) {
	post, err := ParseScrapedPost(strings.NewReader(videoPostPage))
	require.NoError(t, err)

	assert.Equal(t, "pwl7lgepyx2", post.ID)
	assert.Equal(t, "PDN AGIF Issue #1", post.Title)
	assert.Equal(t, "Jacob", post.Username)
	assert.Equal(t, uint64(1), post.Views)
	assert.Nil(t, post.ExtraImageCount)
	assert.Equal(t, uint32(1), post.ImageCount)

	require.Len(t, post.Images, 1)
	file := post.Images[0]
	assert.Equal(t, "6yxkcz5ml7w", file.ID)
	assert.Equal(t, "https://cdn.imgchest.com/files/6yxkcz5ml7w.gif", file.Link)
	require.NotNil(t, file.VideoLink)
	assert.Equal(t, "https://cdn.imgchest.com/files/6yxkcz5ml7w.mp4", *file.VideoLink)
}

func TestParseScrapedPostDataPage(t *testing.T) {
	post, err := ParseScrapedPost(strings.NewReader(dataPagePost(dataPageJSON)))
	require.NoError(t, err)

	assert.Equal(t, "3qe4gdvj4j2", post.ID)
	assert.Equal(t, "Donkey Kong - Video Game From The Mid 80's", post.Title)
	assert.Equal(t, "LunarLandr", post.Username)
	assert.True(t, post.Nsfw)
	assert.Equal(t, uint64(198), post.Views)

	// The payload carries every file, so there is no extra-load step.
	assert.Nil(t, post.ExtraImageCount)
	assert.Equal(t, "", post.Token)
	assert.Equal(t, uint32(2), post.ImageCount)
	assert.Equal(t, uint32(len(post.Images)), post.ImageCount)

	require.Len(t, post.Images, 2)

	first := post.Images[0]
	assert.Equal(t, "nw7w6cmlvye", first.ID)
	require.NotNil(t, first.Description)
	assert.Equal(t, "first image", *first.Description)
	require.NotNil(t, first.Position)
	assert.Equal(t, uint32(1), *first.Position)
	assert.Nil(t, first.VideoLink)

	second := post.Images[1]
	assert.Nil(t, second.Description)
	require.NotNil(t, second.Position)
	assert.Equal(t, uint32(2), *second.Position)
}

func TestParseScrapedPostDataPageInvalid(t *testing.T) {
	_, err := ParseScrapedPost(strings.NewReader(dataPagePost("{not json")))

	var pageErr *InvalidDataPageError
	require.ErrorAs(t, err, &pageErr)
	assert.Error(t, pageErr.Err)
}

func TestParseScrapedPostErrors(t *testing.T) {
	const validHead = `<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">
<meta name="twitter:description" content="198 views">
<meta name="csrf-token" content="page-csrf-token">`
	const validUser = `<a href="https://imgchest.com/u/LunarLandr">LunarLandr</a>`

	tests := []struct {
		name    string
		html    string
		wantErr error
	}{
		{
			name:    "missing id",
			html:    minimalPage(`<meta property="og:title" content="Donkey Kong">`, validUser),
			wantErr: ErrMissingPostID,
		},
		{
			name: "foreign id prefix",
			html: minimalPage(`<meta property="og:url" content="https://example.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">`, validUser),
			wantErr: ErrMissingPostID,
		},
		{
			name:    "missing title",
			html:    minimalPage(`<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">`, validUser),
			wantErr: ErrMissingTitle,
		},
		{
			name: "missing username",
			html: minimalPage(`<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">`, ""),
			wantErr: ErrMissingUsername,
		},
		{
			name: "missing views",
			html: minimalPage(`<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">`, validUser),
			wantErr: ErrMissingViews,
		},
		{
			name: "file without link",
			html: minimalPage(validHead, validUser+`<div id="post-images">
<div id="image-nw7w6cmlvye"><img src="x.png"></div>
</div>`),
			wantErr: ErrMissingFileLink,
		},
		{
			name: "file without id segment",
			html: minimalPage(validHead, validUser+`<div id="post-images">
<div id="image"><a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a></div>
</div>`),
			wantErr: ErrMissingFileID,
		},
		{
			name: "missing token",
			html: minimalPage(`<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">
<meta name="twitter:description" content="198 views">`, validUser),
			wantErr: ErrMissingCSRFToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScrapedPost(strings.NewReader(tt.html))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseScrapedPostInvalidViews(t *testing.T) {
	page := minimalPage(`<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">
<meta name="twitter:description" content="about 198 views">`,
		`<a href="https://imgchest.com/u/LunarLandr">LunarLandr</a>`)

	_, err := ParseScrapedPost(strings.NewReader(page))

	var viewsErr *InvalidViewsError
	require.ErrorAs(t, err, &viewsErr)
	assert.Error(t, viewsErr.Err)
}

func TestParseScrapedPostDescriptions(t *testing.T) {
	const head = `<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">
<meta name="twitter:description" content="198 views">
<meta name="csrf-token" content="page-csrf-token">`
	const user = `<a href="https://imgchest.com/u/LunarLandr">LunarLandr</a>`

	t.Run("text nodes are concatenated", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">
<div id="image-nw7w6cmlvye">
<a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a>
<div class="description-wrapper"><span>part one</span><span>part two</span></div>
</div>
</div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, post.Images, 1)
		require.NotNil(t, post.Images[0].Description)
		assert.Equal(t, "part onepart two", *post.Images[0].Description)
	})

	t.Run("label only means no description", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">
<div id="image-nw7w6cmlvye">
<a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a>
<div class="description-wrapper"><p>Description</p></div>
</div>
</div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, post.Images, 1)
		assert.Nil(t, post.Images[0].Description)
	})

	t.Run("only the first wrapper is read", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">
<div id="image-nw7w6cmlvye">
<a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a>
<div class="description-wrapper"><p>first</p></div>
<div class="description-wrapper"><p>second</p></div>
</div>
</div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		require.Len(t, post.Images, 1)
		require.NotNil(t, post.Images[0].Description)
		assert.Equal(t, "first", *post.Images[0].Description)
	})
}

func TestParseScrapedPostExtraCount(t *testing.T) {
	const head = `<meta property="og:url" content="https://imgchest.com/p/3qe4gdvj4j2">
<meta property="og:title" content="Donkey Kong">
<meta name="twitter:description" content="198 views">
<meta name="csrf-token" content="page-csrf-token">`
	const user = `<a href="https://imgchest.com/u/LunarLandr">LunarLandr</a>`
	const file = `<div id="image-nw7w6cmlvye">
<a data-url="https://cdn.imgchest.com/files/nw7w6cmlvye.png"></a>
</div>`

	t.Run("unparsable count is ignored", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">`+file+`<button class="load-all">Load many more</button></div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		assert.Nil(t, post.ExtraImageCount)
		assert.Equal(t, uint32(1), post.ImageCount)
	})

	t.Run("one word label is ignored", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">`+file+`<button class="load-all">More</button></div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		assert.Nil(t, post.ExtraImageCount)
		assert.Equal(t, uint32(1), post.ImageCount)
	})

	t.Run("nested label text", func(t *testing.T) {
		page := minimalPage(head, user+`<div id="post-images">`+file+`<button class="load-all"> <span>Load 7 More Files</span></button></div>`)

		post, err := ParseScrapedPost(strings.NewReader(page))
		require.NoError(t, err)
		require.NotNil(t, post.ExtraImageCount)
		assert.Equal(t, uint32(7), *post.ExtraImageCount)
		assert.Equal(t, uint32(8), post.ImageCount)
	})
}

func TestParseScrapedFiles(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		files, err := ParseScrapedFiles(strings.NewReader(loadAllFragment))
		require.NoError(t, err)

		require.Len(t, files, 1)
		assert.Equal(t, "we4gdcv5j4r", files[0].ID)
		assert.Equal(t, "https://cdn.imgchest.com/files/we4gdcv5j4r.jpg", files[0].Link)
		assert.Nil(t, files[0].Description)
	})

	t.Run("multiple files", func(t *testing.T) {
		fragment := `<div id="image-aaaaaaaaaaa"><a data-url="https://cdn.imgchest.com/files/aaaaaaaaaaa.png"></a></div>
<div id="image-bbbbbbbbbbb"><a data-url="https://cdn.imgchest.com/files/bbbbbbbbbbb.png"></a></div>`

		files, err := ParseScrapedFiles(strings.NewReader(fragment))
		require.NoError(t, err)

		require.Len(t, files, 2)
		assert.Equal(t, "aaaaaaaaaaa", files[0].ID)
		assert.Equal(t, "bbbbbbbbbbb", files[1].ID)
	})

	t.Run("file without link", func(t *testing.T) {
		fragment := `<div id="image-aaaaaaaaaaa"><img src="x.png"></div>`

		_, err := ParseScrapedFiles(strings.NewReader(fragment))
		assert.ErrorIs(t, err, ErrMissingFileLink)
	})
}
