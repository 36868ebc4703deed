package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide prints where the two tokens come from
func ShowTokenGuide(w io.Writer) {
	line := strings.Repeat("=", 72)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "TOKENS")
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "photosync needs two pre-obtained tokens. It never runs an OAuth flow itself.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "VK access token")
	fmt.Fprintln(w, "   - Create a standalone app at https://vk.com/apps?act=manage")
	fmt.Fprintln(w, "   - Request a token with the photos scope (implicit flow)")
	fmt.Fprintln(w, "   - Copy the access_token value from the redirect URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Yandex Disk OAuth token")
	fmt.Fprintln(w, "   - Open https://yandex.ru/dev/disk/poligon/ and press \"Get OAuth token\"")
	fmt.Fprintln(w, "   - Paste it with the \"OAuth \" prefix if your account requires it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Both tokens grant access to your accounts. Do not share them.")
	fmt.Fprintln(w, line)
}
