package admin

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/bizdir/internal/netx"
	"github.com/spf13/cobra"
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var uploadClient = &http.Client{Timeout: 5 * time.Minute}

func uploadPhotoCmd() *cobra.Command {
	var (
		url         string
		file        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "upload-photo",
		Short: "Upload an image to the URL returned by POST /photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentType == "" {
				ct, ok := contentTypes[strings.ToLower(filepath.Ext(file))]
				if !ok {
					return fmt.Errorf("cannot infer content type of %s, pass --content-type", file)
				}
				contentType = ct
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}

			if err := netx.PutPresigned(cmd.Context(), uploadClient, url, contentType, f, info.Size()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d bytes as %s\n", info.Size(), contentType)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "presigned upload URL")
	cmd.Flags().StringVar(&file, "file", "", "image file")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type the URL was signed for (default: from extension)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
