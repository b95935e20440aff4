package api

import (
	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/pagecache"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, cache *pagecache.Store, cfg handlerConfig) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(database.UserRepo(), cfg.jwtSecret),
		feedHandler:    newFeedHandler(database.PostRepo(), database.GroupRepo(), cfg.pageSize),
		postHandler:    newPostHandler(database.PostRepo(), database.CommentRepo(), database.GroupRepo(), cfg.mediaRoot),
		profileHandler: newProfileHandler(database.UserRepo(), database.PostRepo(), database.FollowRepo(), cfg.pageSize),
		groupHandler:   newGroupHandler(database.GroupRepo()),
		cacheHandler:   newCacheHandler(cache),
		statusHandler:  newStatusHandler(cfg.startupTime),
	}
}
