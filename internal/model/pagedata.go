package model

// PageData is the root value every layout is executed with.
type PageData struct {
	Site      *SiteData
	PageTitle string
	Page      *Page
}
