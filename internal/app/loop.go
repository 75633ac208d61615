package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Elyot88/Image-QR-weblink/internal/notify"
	"github.com/Elyot88/Image-QR-weblink/internal/source"
)

// Panel is the active top-level view of the interactive client.
type Panel string

const (
	PanelLink Panel = "link"
	PanelScan Panel = "scan"
	PanelView Panel = "view"
)

// Run drives the interactive client: a panel loop on stdin plus the
// camera preview server. Blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Session.Stop()
	defer a.Scans.Reset()

	go func() {
		if err := a.Preview.Run(ctx); err != nil {
			a.Logger.Error("Preview server failed: %v", err)
		}
	}()

	fmt.Println("weblink - link images to URLs, scan them back")
	fmt.Printf("Backend: %s\n", a.Config.APIBaseURL)
	fmt.Println(`Panels: "link", "scan", "view". Type "help" for commands, "quit" to exit.`)

	panel := PanelLink
	urlInput := ""
	a.printPrompt(panel)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := a.reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, arg := splitCommand(line)
		if cmd == "" {
			a.printPrompt(panel)
			continue
		}

		switch cmd {
		case "quit", "exit":
			return nil

		case "help":
			a.printHelp(panel)

		case "link", "scan", "view":
			next := Panel(cmd)
			if next != panel {
				a.leavePanel(panel)
				panel = next
				urlInput = ""
				if panel == PanelView {
					if err := a.Orch.RefreshStoredLinks(ctx); err == nil {
						a.printLinks()
					}
				}
			}

		default:
			urlInput = a.handlePanelCommand(ctx, panel, cmd, arg, urlInput)
		}

		a.printPrompt(panel)
	}
}

// leavePanel clears per-panel state: the active image source and, when
// leaving the scan panel, the scan result and its pending navigation.
func (a *App) leavePanel(panel Panel) {
	a.Resolver.Clear()
	if panel == PanelScan {
		a.Scans.Reset()
	}
}

func (a *App) handlePanelCommand(ctx context.Context, panel Panel, cmd, arg, urlInput string) string {
	switch cmd {
	case "camera":
		a.startCamera()
	case "stop":
		a.Session.Stop()
		a.Notifier.Show("Camera off", notify.Info)
	case "capture":
		if panel == PanelView {
			a.unknown(cmd)
			break
		}
		a.captureFrame()
	case "file":
		if panel == PanelView || arg == "" {
			a.unknown(cmd)
			break
		}
		a.selectFile(arg)
	case "url":
		if panel != PanelLink {
			a.unknown(cmd)
			break
		}
		urlInput = strings.TrimSpace(arg)
		fmt.Printf("URL set to %q\n", urlInput)
	case "submit":
		switch panel {
		case PanelLink:
			if err := a.Orch.LinkImage(ctx, urlInput); err == nil {
				urlInput = ""
			}
		case PanelScan:
			a.Orch.ScanImage(ctx)
		default:
			a.unknown(cmd)
		}
	case "status":
		a.printStatus(panel, urlInput)
	case "list":
		if panel != PanelView {
			a.unknown(cmd)
			break
		}
		a.printLinks()
	case "refresh":
		if panel != PanelView {
			a.unknown(cmd)
			break
		}
		if err := a.Orch.RefreshStoredLinks(ctx); err == nil {
			a.printLinks()
		}
	case "delete":
		if panel != PanelView || arg == "" {
			a.unknown(cmd)
			break
		}
		a.Orch.DeleteLink(ctx, strings.TrimSpace(arg))
	default:
		a.unknown(cmd)
	}
	return urlInput
}

func (a *App) printPrompt(panel Panel) {
	fmt.Printf("[%s] > ", panel)
}

func (a *App) unknown(cmd string) {
	fmt.Printf("Unknown command %q here. Type \"help\".\n", cmd)
}

func (a *App) printStatus(panel Panel, urlInput string) {
	img := a.Resolver.Current()
	fmt.Printf("panel=%s camera=%v", panel, a.Session.Active())
	if panel == PanelLink {
		fmt.Printf(" url=%q", urlInput)
	}
	if img.Kind == source.None {
		fmt.Println(" image=none")
	} else {
		fmt.Printf(" image=%s(%s, %d bytes)\n", img.Kind, img.Name, len(img.Data))
	}
	if panel == PanelScan {
		fmt.Printf("scan state: %s\n", a.Scans.State())
	}
}

func (a *App) printHelp(panel Panel) {
	fmt.Println("Global: link | scan | view   switch panel")
	fmt.Println("        status, help, quit")
	switch panel {
	case PanelLink:
		fmt.Println("Link panel:")
		fmt.Println("  camera / stop      start or stop the camera (preview in browser)")
		fmt.Println("  capture            grab the current frame as the image")
		fmt.Println("  file <path>        use an image file from disk instead")
		fmt.Println("  url <target>       set the URL the image should open")
		fmt.Println("  submit             link the image to the URL")
	case PanelScan:
		fmt.Println("Scan panel:")
		fmt.Println("  camera / stop / capture / file <path>   choose the image")
		fmt.Println("  submit             scan; a match opens its URL after 2s")
	case PanelView:
		fmt.Println("View panel:")
		fmt.Println("  list               show cached links")
		fmt.Println("  refresh            re-fetch from the backend")
		fmt.Println("  delete <id>        delete a link (asks for confirmation)")
	}
}

// splitCommand separates the command word from its argument.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return strings.ToLower(parts[0]), ""
	}
	return strings.ToLower(parts[0]), strings.TrimSpace(parts[1])
}
