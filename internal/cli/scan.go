package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/glyphlab/glyph/internal/envelope"
	"github.com/glyphlab/glyph/internal/ledger"
	"github.com/glyphlab/glyph/internal/randx"
	"github.com/glyphlab/glyph/internal/scan"
)

// Scan reads raw frame strings line by line (stand-in for the camera
// pipeline) and drives the scan session until a payload is admitted,
// blocked, or the user stops.
func (a *App) Scan(ctx context.Context) error {
	fmt.Println("paste frame strings, one per line (empty line to stop)")

	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			a.session.Reset()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			a.session.Reset()
			return nil
		}

		ev, err := a.session.Ingest(ctx, line)
		if err != nil {
			return err
		}

		done, err := a.handleEvent(ctx, ev)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (a *App) handleEvent(ctx context.Context, ev scan.Event) (done bool, err error) {
	switch ev.Type {
	case scan.EventIgnored:
		return false, nil

	case scan.EventProgress:
		fmt.Printf("collecting %d/%d frames\n", ev.Received, ev.Total)
		return false, nil

	case scan.EventPINRequired:
		return a.promptPIN(ctx)

	case scan.EventLogo:
		fmt.Println("you found the glyph logo ✨")
		return false, nil

	case scan.EventBlocked:
		switch ev.Reason {
		case ledger.ReasonWindowExpired:
			fmt.Println("this code has expired")
		default:
			// deliberately vague: no confirming replay details
			fmt.Println("message unavailable")
		}
		return true, nil

	case scan.EventDecoded:
		a.show(ev.Payload)
		return true, nil
	}
	return false, nil
}

// promptPIN keeps asking until the PIN opens the payload or the user gives
// up with an empty entry.
func (a *App) promptPIN(ctx context.Context) (bool, error) {
	for {
		pin, err := GetPIN(os.Stdout, "PIN: ")
		if err != nil {
			return false, err
		}
		if len(pin) == 0 {
			a.session.Reset()
			fmt.Println("scan abandoned")
			return true, nil
		}

		ev, err := a.session.TryPIN(ctx, string(pin))
		randx.Wipe(pin)
		if err != nil {
			if scan.IsWrongPin(err) {
				fmt.Println("wrong PIN, try again")
				continue
			}
			return false, err
		}
		return a.handleEvent(ctx, ev)
	}
}

func (a *App) show(p envelope.Payload) {
	switch v := p.(type) {
	case *envelope.Message:
		fmt.Printf("--- message ---\n%s\n", v.Text)
		if v.Signature != nil {
			fmt.Printf("from %s on %s (unverified)\n", v.Signature.Handle, v.Signature.Platform)
		}
		if len(v.ImageData) > 0 {
			fmt.Printf("[image attachment, %d bytes]\n", len(v.ImageData))
		}
		if len(v.AudioData) > 0 {
			fmt.Printf("[audio attachment, %d bytes]\n", len(v.AudioData))
		}
		if v.ViewerExpirationSeconds > 0 {
			fmt.Printf("disappears %d seconds after opening\n", v.ViewerExpirationSeconds)
		}
	case *envelope.WebBundle:
		fmt.Printf("--- web bundle: %s ---\n%s\n", v.Title, v.HTML)
	case *envelope.SurveyResponse:
		fmt.Printf("--- survey response %s ---\n", v.SurveyID)
		for i, ans := range v.Answers {
			fmt.Printf("%d. %s\n", i+1, ans)
		}
	}
}
