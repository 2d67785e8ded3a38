package cli

import (
	"context"
	"mime"
	"os"
	"path/filepath"
)

// Upload sends the file at args[0] to the server's object storage.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: upload <path>")
		return errUsage
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.client.Upload(ctx, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), f)
	if err != nil {
		return err
	}

	a.printf("Uploaded %s\nurl: %s\n", res.PublicID, res.URL)
	return nil
}
