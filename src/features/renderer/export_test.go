package renderer

var SetWallpaperWith = setWallpaperWith
