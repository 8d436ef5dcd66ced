package middleware

import "github.com/gin-gonic/gin"

// ViewData seeds the template data every page render starts from.
func ViewData(appName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ViewDataKey, gin.H{
			"AppName": appName,
			"Version": version,
		})
		c.Next()
	}
}

// View returns a copy of the per-request template data merged with extra.
func View(c *gin.Context, extra gin.H) gin.H {
	data := gin.H{}
	if v, ok := c.Get(ViewDataKey); ok {
		if base, ok := v.(gin.H); ok {
			for k, val := range base {
				data[k] = val
			}
		}
	}
	if lv := c.GetString(LastVisitKey); lv != "" {
		data["LastVisit"] = lv
	}
	for k, val := range extra {
		data[k] = val
	}
	return data
}
