package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/dashboard"
)

const (
	PromptUpload   = "Upload resume"
	PromptMatch    = "Find matches"
	PromptClear    = "Clear results"
	PromptDetails  = "View match details"
	PromptDownload = "Download resume"
	PromptRefresh  = "Refresh resumes"
	PromptLogin    = "Log in"
	PromptLogout   = "Log out"
	PromptExit     = "Exit"
	PromptBack     = "back"
)

var errExit = errors.New("exit requested")

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse, upload and match resumes interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		runDashboard(setup(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(rt *runtime, out io.Writer) {
	rt.logger.Info("starting the dashboard", zap.String("version", version))

	view := dashboard.New(rt.logger)

	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		view.Load(rt.ctx, rt.client)
	}()

	fmt.Fprintln(out, banner(rt))
	view.Render(out)
	<-loaded

	for {
		fmt.Fprintln(out)
		view.Render(out)

		prompt := promptui.Select{
			Label: "What next?",
			Items: menu(view, rt.session.LoggedIn()),
			Size:  10,
		}

		_, action, err := prompt.Run()
		if err != nil {
			if isPromptAbort(err) {
				return
			}
			rt.logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, rt, view, out); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if isPromptAbort(err) {
				continue
			}
			rt.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func banner(rt *runtime) string {
	title := rt.config.AppName
	if u := rt.session.User(); u != nil {
		return fmt.Sprintf("%s | %s", title, displayUser(u))
	}
	return title + " | not logged in"
}

// menu lists the actions that make sense for the current view.
func menu(view *dashboard.Dashboard, loggedIn bool) []string {
	items := []string{PromptUpload, PromptMatch}

	if view.MatchMode() {
		items = append(items, PromptClear)
		if len(view.Items()) > 0 {
			items = append(items, PromptDetails)
		}
	}

	if len(view.Items()) > 0 {
		items = append(items, PromptDownload)
	}

	items = append(items, PromptRefresh)

	if loggedIn {
		items = append(items, PromptLogout)
	} else {
		items = append(items, PromptLogin)
	}

	return append(items, PromptExit)
}

// handleAction runs one menu action. Request failures are kept in the view
// and printed; they never end the loop.
func handleAction(action string, rt *runtime, view *dashboard.Dashboard, out io.Writer) error {
	switch action {
	case PromptUpload:
		return promptUpload(rt, view, out)
	case PromptMatch:
		return promptMatch(rt, view, out)
	case PromptClear:
		view.ClearResults()
		return nil
	case PromptDetails:
		id, err := chooseItem(view, "Choose a match and press ENTER")
		if err != nil || id == 0 {
			return err
		}
		return view.Detail(out, id)
	case PromptDownload:
		return promptDownload(rt, view, out)
	case PromptRefresh:
		view.Load(rt.ctx, rt.client)
		return nil
	case PromptLogin:
		user, err := login(rt.ctx, rt.client, rt.session, rt.config.DevLogin)
		if err != nil {
			view.Fail(dashboard.ActionLogin, err)
			printError(out, view, dashboard.ActionLogin)
			return nil
		}
		view.Succeeded(dashboard.ActionLogin)
		fmt.Fprintf(out, "Logged in as %s\n", displayUser(user))
		view.Load(rt.ctx, rt.client)
		return nil
	case PromptLogout:
		if err := rt.session.Clear(); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Fprintln(out, "Logged out")
		return nil
	case PromptExit:
		rt.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func promptUpload(rt *runtime, view *dashboard.Dashboard, out io.Writer) error {
	path, err := (&promptui.Prompt{Label: "Resume file"}).Run()
	if err != nil {
		return err
	}

	title, err := (&promptui.Prompt{Label: "Title (empty for file name)"}).Run()
	if err != nil {
		return err
	}

	resume, err := uploadFile(rt.ctx, rt.client, rt.validator, path, title)
	if err != nil {
		view.Fail(dashboard.ActionUpload, err)
		printError(out, view, dashboard.ActionUpload)
		return nil
	}

	view.UploadSucceeded(*resume)
	fmt.Fprintf(out, "Uploaded %q\n", resume.Title)
	return nil
}

func promptMatch(rt *runtime, view *dashboard.Dashboard, out io.Writer) error {
	jd, err := (&promptui.Prompt{Label: "Job description"}).Run()
	if err != nil {
		return err
	}

	result, err := rt.client.MatchJobDescription(rt.ctx, jd)
	if err != nil {
		view.Fail(dashboard.ActionMatch, err)
		printError(out, view, dashboard.ActionMatch)
		return nil
	}

	view.MatchSucceeded(result)
	for _, line := range view.SummaryLines() {
		fmt.Fprintln(out, line)
	}
	return nil
}

func promptDownload(rt *runtime, view *dashboard.Dashboard, out io.Writer) error {
	id, err := chooseItem(view, "Choose a resume to download")
	if err != nil || id == 0 {
		return err
	}

	it, ok := view.FindItem(id)
	if !ok {
		return fmt.Errorf("there is no such resume id %d", id)
	}

	path, err := saveFile(rt.ctx, rt.client, rt.config.DownloadDir, it.File())
	if err != nil {
		view.Fail(dashboard.ActionDownload, err)
		printError(out, view, dashboard.ActionDownload)
		return nil
	}

	view.Succeeded(dashboard.ActionDownload)
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

// chooseItem returns the selected resume id, or 0 when the user goes back.
func chooseItem(view *dashboard.Dashboard, label string) (int, error) {
	items := view.Items()
	labels := make([]string, 0, len(items)+1)
	for _, it := range items {
		labels = append(labels, itemLabel(it))
	}

	selector := promptui.Select{
		Label: label,
		Items: append(labels, PromptBack),
		Size:  10,
	}

	_, selected, err := selector.Run()
	if err != nil {
		return 0, err
	}

	if selected == PromptBack {
		return 0, nil
	}

	return parseItemID(selected)
}

func itemLabel(it dashboard.Item) string {
	label := fmt.Sprintf("%d %s / %s", it.ResumeID(), it.Title(), it.File().Filename)
	if m, ok := it.(dashboard.ScoredMatch); ok {
		label += " / " + m.Score.Badge()
	}
	return label
}

func parseItemID(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, errors.New("empty selection")
	}
	return strconv.Atoi(fields[0])
}

func printError(out io.Writer, view *dashboard.Dashboard, action dashboard.Action) {
	if msg := view.Error(action); msg != "" {
		fmt.Fprintf(out, "Error: %s\n", msg)
	}
}

func isPromptAbort(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort)
}
