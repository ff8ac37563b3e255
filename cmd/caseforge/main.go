// Command caseforge runs the test-case generation workflow interactively:
// pick a work item, confirm its description, generate cases, review them,
// and optionally publish to TestRail.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yjnoh/caseforge"
	"github.com/yjnoh/caseforge/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "caseforge",
		Short:        "Generate structured test cases from work items",
		Long:         "Caseforge turns a work-item description from Jira, GitHub, GitLab, or Figma\ninto structured test cases, optionally via an AI provider, and can publish\nthe result to TestRail.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the settings file")

	return cmd
}

func run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	wizard, err := buildWizard(settings)
	if err != nil {
		return err
	}

	session := caseforge.NewSession()
	session.RequestedCount = settings.App.DefaultTestCount

	ui := &console{
		in:      bufio.NewScanner(os.Stdin),
		wizard:  wizard,
		session: &session,
	}
	return ui.loop()
}

// console drives the wizard from stdin, one step per screen.
type console struct {
	in      *bufio.Scanner
	wizard  *caseforge.Wizard
	session *caseforge.Session
}

func (c *console) loop() error {
	for {
		var err error
		switch c.session.CurrentStep {
		case caseforge.StepInput:
			err = c.inputStep()
		case caseforge.StepConfirm:
			err = c.confirmStep()
		case caseforge.StepConfigure:
			err = c.configureStep()
		case caseforge.StepGenerate:
			err = c.wizard.Generate(ctx(), c.session)
		case caseforge.StepReview:
			var done bool
			done, err = c.reviewStep()
			if done {
				return err
			}
		case caseforge.StepPublish:
			var done bool
			done, err = c.publishStep()
			if done {
				return err
			}
		}
		if err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Printf("  ! %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (c *console) inputStep() error {
	fmt.Println("\n[1/6] Work item")
	fmt.Println("  key <KEY>   fetch from the issue tracker")
	fmt.Println("  url <URL>   import a Figma share link")
	fmt.Println("  manual      type a work item by hand")
	fmt.Println("  quit")

	cmd, arg := c.prompt("input> ")
	switch cmd {
	case "key":
		return c.wizard.LookupWorkItem(ctx(), c.session, arg)
	case "url":
		return c.wizard.ImportDesignNode(ctx(), c.session, arg)
	case "manual":
		title := c.readLine("  title: ")
		fmt.Println("  description (finish with a single '.'):")
		description := c.readBlock()
		return c.wizard.EnterManualItem(c.session, title, description)
	case "quit", "":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (c *console) confirmStep() error {
	item := c.session.Item
	fmt.Printf("\n[2/6] Confirm %s: %s\n", item.Key, item.Summary)
	fmt.Println(indent(c.session.EffectiveDescription()))
	if item.AcceptanceCriteria != "" {
		fmt.Println("  acceptance criteria detected:")
		fmt.Println(indent(item.AcceptanceCriteria))
	}
	fmt.Println("  enter       keep the description")
	fmt.Println("  edit        replace it")
	fmt.Println("  back")

	cmd, _ := c.prompt("confirm> ")
	switch cmd {
	case "", "enter":
		return c.wizard.ConfirmDescription(c.session, item.Description)
	case "edit":
		fmt.Println("  new description (finish with a single '.'):")
		return c.wizard.ConfirmDescription(c.session, c.readBlock())
	case "back":
		return c.wizard.Back(c.session)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (c *console) configureStep() error {
	fmt.Printf("\n[3/6] How many cases? (%d-%d, enter for %d)\n",
		caseforge.MinCaseCount, caseforge.MaxCaseCount, c.session.RequestedCount)

	cmd, _ := c.prompt("count> ")
	count := c.session.RequestedCount
	switch cmd {
	case "":
	case "back":
		return c.wizard.Back(c.session)
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			return fmt.Errorf("not a number: %s", cmd)
		}
		count = n
	}

	// Optional hints. Each one adds a case on top of the count.
	fmt.Printf("  focus areas, comma-separated (enter to skip):\n    %s\n",
		strings.Join(caseforge.KnownFocusAreas(), ", "))
	areas := splitList(c.readLine("  areas> "))
	extraContext := c.readLine("  extra context (enter to skip): ")

	if err := c.wizard.SetGenerationHints(c.session, areas, extraContext); err != nil {
		return err
	}
	return c.wizard.Configure(c.session, count)
}

// splitList splits a comma-separated input line, dropping empty entries.
func splitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (c *console) reviewStep() (bool, error) {
	fmt.Printf("\n[5/6] Review (%d cases, %s)\n", len(c.session.Cases), c.session.Mode)
	fmt.Println(caseforge.RenderReport(c.session))
	fmt.Println("  title <n> <text>   retitle case n")
	fmt.Println("  delete <n>         remove case n")
	fmt.Println("  save <file>        write the report to a file")
	if c.wizard.HasTestManagement() {
		fmt.Println("  publish            send the cases to TestRail")
	}
	fmt.Println("  back / restart / done")

	cmd, arg := c.prompt("review> ")
	switch cmd {
	case "title":
		n, text, err := splitIndexArg(arg)
		if err != nil {
			return false, err
		}
		if n < 1 || n > len(c.session.Cases) {
			return false, fmt.Errorf("no case %d", n)
		}
		tc := c.session.Cases[n-1]
		tc.Title = text
		return false, c.wizard.UpdateCase(c.session, n-1, tc)
	case "delete":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return false, fmt.Errorf("not a number: %s", arg)
		}
		return false, c.wizard.DeleteCase(c.session, n-1)
	case "save":
		if arg == "" {
			return false, fmt.Errorf("save needs a file name")
		}
		if err := os.WriteFile(arg, []byte(caseforge.RenderReport(c.session)), 0o644); err != nil {
			return false, err
		}
		fmt.Printf("  wrote %s\n", arg)
		return false, nil
	case "publish":
		return false, c.wizard.ProceedToPublish(c.session)
	case "back":
		return false, c.wizard.Back(c.session)
	case "restart":
		c.wizard.Restart(c.session)
		return false, nil
	case "done", "":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
}

// publishStep walks the destination picks and publishes. It returns done=true
// only on success; a failed pick or publish reports inline and re-renders so
// the user can retry or go back.
func (c *console) publishStep() (bool, error) {
	picker := c.wizard.NewPicker()

	projects, err := picker.LoadProjects(ctx())
	if err != nil {
		return false, err
	}
	projectID, err := c.pick("project", projectNames(projects))
	if err == errBack {
		return false, c.wizard.Back(c.session)
	}
	if err != nil {
		return false, err
	}
	if err := picker.SelectProject(ctx(), projects[projectID].ID); err != nil {
		return false, err
	}

	suiteID, err := c.pick("suite", suiteNames(picker.Suites))
	if err == errBack {
		return false, c.wizard.Back(c.session)
	}
	if err != nil {
		return false, err
	}
	if err := picker.SelectSuite(ctx(), picker.Suites[suiteID].ID); err != nil {
		return false, err
	}

	sectionID, err := c.pick("section", sectionNames(picker.Sections))
	if err == errBack {
		return false, c.wizard.Back(c.session)
	}
	if err != nil {
		return false, err
	}
	if err := picker.SelectSection(picker.Sections[sectionID].ID); err != nil {
		return false, err
	}

	dest, err := picker.Destination()
	if err != nil {
		return false, err
	}

	report, err := c.wizard.Publish(ctx(), c.session, dest, nil)
	if err != nil {
		return false, err
	}

	fmt.Printf("\n[6/6] Published: %d succeeded, %d failed\n", report.Succeeded, report.Failed)
	return true, nil
}

var errBack = fmt.Errorf("back")

// pick shows a numbered list and returns the chosen index. An empty line or
// "back" returns errBack.
func (c *console) pick(kind string, names []string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("no %ss available", kind)
	}
	fmt.Printf("\nSelect a %s (enter to go back):\n", kind)
	for i, name := range names {
		fmt.Printf("  %d. %s\n", i+1, name)
	}

	cmd, _ := c.prompt(kind + "> ")
	if cmd == "" || cmd == "back" {
		return 0, errBack
	}
	n, err := strconv.Atoi(cmd)
	if err != nil || n < 1 || n > len(names) {
		return 0, fmt.Errorf("pick a number between 1 and %d", len(names))
	}
	return n - 1, nil
}

func (c *console) prompt(label string) (cmd, arg string) {
	line := c.readLine(label)
	cmd, arg, _ = strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func (c *console) readLine(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return ""
	}
	return c.in.Text()
}

// readBlock reads lines until a single "." line.
func (c *console) readBlock() string {
	var lines []string
	for c.in.Scan() {
		line := c.in.Text()
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func splitIndexArg(arg string) (int, string, error) {
	numText, rest, _ := strings.Cut(arg, " ")
	n, err := strconv.Atoi(numText)
	if err != nil {
		return 0, "", fmt.Errorf("not a number: %s", numText)
	}
	return n, strings.TrimSpace(rest), nil
}

func indent(s string) string {
	if s == "" {
		return "    (empty)"
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}

func projectNames(items []caseforge.Project) []string {
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.Name
	}
	return names
}

func suiteNames(items []caseforge.Suite) []string {
	names := make([]string, len(items))
	for i, s := range items {
		names[i] = s.Name
	}
	return names
}

func sectionNames(items []caseforge.Section) []string {
	names := make([]string, len(items))
	for i, s := range items {
		names[i] = s.Name
	}
	return names
}
