package scraper

// DOM selectors for the search result pages.
// Both sites ship generated class names that change with every frontend
// release. Update these when extraction starts returning nothing.

const (
	tiktokSearchURL = "https://www.tiktok.com/search"
	tiktokDomain    = "tiktok.com"

	// Result card on the search page
	tiktokContainer = `div.css-1soki6-DivItemContainerForSearch.e19c29qe9`

	// Inside a card
	tiktokCaption     = `div.css-f22ew5-DivMetaCaptionLine`
	tiktokProfileLink = `a[href*="/@"]`
	tiktokTimeTag     = `div.css-1lf486f-DivTimeTag`
	tiktokViews       = `strong[data-e2e="video-views"]`

	// aria-label prefix on the profile link, the rest is the display name
	tiktokProfileLabel = "Perfil de "
)

const (
	facebookSearchURL = "https://www.facebook.com/search/videos/"

	// Result card: any div carrying the card class with a link inside.
	facebookContainer = `//div[contains(@class, 'x1a2cdl4') and .//a]`
	facebookLink      = `.//a[@href]`
)
