package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Elyot88/Image-QR-weblink/internal/app"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weblink",
		Short: "Camera client for the image-to-URL recognition backend",
		Long: `weblink links images to URLs and scans images to navigate to linked URLs.

Without a subcommand it starts the interactive client: a panel loop
(link / scan / view) with a live camera preview in your browser.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd)
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

func runInteractive(cmd *cobra.Command) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd.Context())
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd)
		},
	}
}

func newLinkCmd() *cobra.Command {
	var targetURL, file string
	var capture bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link an image to a URL",
		Example: `  # Link a file from disk
  weblink link --url https://example.com --file logo.png

  # Link a frame captured from the camera
  weblink link --url https://example.com --capture`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.LinkOnce(cmd.Context(), targetURL, file, capture)
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "URL the image should open")
	cmd.Flags().StringVar(&file, "file", "", "image file to link")
	cmd.Flags().BoolVar(&capture, "capture", false, "capture a frame from the camera instead")
	return cmd
}

func newScanCmd() *cobra.Command {
	var file string
	var capture bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan an image and open the matched URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ScanOnce(cmd.Context(), file, capture)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "image file to scan")
	cmd.Flags().BoolVar(&capture, "capture", false, "capture a frame from the camera instead")
	return cmd
}

func newViewCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "List stored image links",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ViewOnce(cmd.Context(), refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch from the backend instead of the local cache")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored image link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			defer a.Close()
			a.SetAssumeYes(yes)
			return a.DeleteOnce(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
