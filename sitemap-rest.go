package motorhall

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/catalog"
)

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type SitemapREST struct {
	catalogRepository *catalog.Repository
	publicURL         string
}

func NewSitemapREST(catalogRepository *catalog.Repository, publicURL string) *SitemapREST {
	return &SitemapREST{
		catalogRepository: catalogRepository,
		publicURL:         strings.TrimRight(publicURL, "/"),
	}
}

func (s *SitemapREST) handleSitemap(ctx *gin.Context) {
	ids, err := s.catalogRepository.SitemapItems(ctx)
	if err != nil {
		renderError(ctx, err)

		return
	}

	urlSet := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: s.publicURL + "/"}, {Loc: s.publicURL + "/sell"}},
	}

	for _, id := range ids {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/vehicles/%d", s.publicURL, id),
		})
	}

	body, err := xml.Marshal(urlSet)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

func (s *SitemapREST) handleRobots(ctx *gin.Context) {
	ctx.String(http.StatusOK,
		"User-agent: *\nAllow: /\nDisallow: /admin\nSitemap: %s/sitemap.xml\n",
		s.publicURL,
	)
}

func (s *SitemapREST) SetupRouter(router *gin.Engine) {
	router.GET("/sitemap.xml", s.handleSitemap)
	router.GET("/robots.txt", s.handleRobots)
}
