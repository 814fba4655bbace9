package renderer

import (
	"github.com/ln64-git/setwallpaper/src/config"
	"github.com/ln64-git/setwallpaper/src/utility"
)

// SetWallpaperUniversal is the entry point for embedding: it draws imagePath
// on the root window of $DISPLAY without any desktop detection. It returns 0
// on success and 1 on any failure.
func SetWallpaperUniversal(imagePath string) int {
	return setWallpaperWith(OpenDisplay, imagePath)
}

func setWallpaperWith(open Opener, imagePath string) int {
	if imagePath == "" || !utility.IsRegularFile(imagePath) {
		return 1
	}

	s, err := open()
	if err != nil {
		return 1
	}
	defer s.Close()

	if err := NewRenderer(utility.Discard(), config.ScalerQuality).Render(s, imagePath); err != nil {
		return 1
	}
	return 0
}
