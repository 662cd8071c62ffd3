package handler

// pageQuery is the page/page_size pair shared by simple lists
type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// searchPageQuery adds a search term to pageQuery
type searchPageQuery struct {
	pageQuery
	Search string `form:"search"`
}
