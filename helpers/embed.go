package helpers

import "strconv"

// GetDiscordColorFromHex converts a hex colour like "ff7e00" to the int discord expects
func GetDiscordColorFromHex(hex string) int {
	colour, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return 0
	}
	return int(colour)
}
