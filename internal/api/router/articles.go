package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/api/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type ArticleRouter struct {
	e      *echo.Echo
	reader storage.Reader
}

func NewArticleRouter(e *echo.Echo, reader storage.Reader) *ArticleRouter {
	return &ArticleRouter{
		e:      e,
		reader: reader,
	}
}

func (r *ArticleRouter) Bind() {
	r.e.GET("/articles", r.listHandler)
	r.e.GET("/feed", r.feedHandler)
}

func (r *ArticleRouter) listHandler(c echo.Context) error {
	var q dto.ArticleQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	p := q.Pagination()
	page, err := r.reader.ListArticles(c.Request().Context(), q.Filter(), p.Page, p.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResult(page, p))
}

func (r *ArticleRouter) feedHandler(c echo.Context) error {
	var q dto.FeedQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	p := q.Pagination()
	page, err := r.reader.Feed(c.Request().Context(), q.Preferences(), p.Page, p.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResult(page, p))
}

func toResult(page *storage.Page, req pagination.OffsetRequest) *pagination.OffsetResult[dto.Article] {
	return pagination.NewOffsetResult(dto.FromDomainList(page.Items), int64(page.Total), req.Page, req.Size)
}
