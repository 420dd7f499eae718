package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/board", handler.GetSettings)
	rg.GET("/boards/:slug", handler.GetSummary)
}
