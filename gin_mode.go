package main

import "github.com/gin-gonic/gin"

func setGinMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
