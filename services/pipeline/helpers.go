package pipeline

import (
	"fmt"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// HandleExit exits the process with a non-zero code unless all runs succeeded
func HandleExit(results []contracts.RunResult) {

	if !contracts.HasSucceededStatus(results) {
		os.Exit(1)
	}

	os.Exit(0)
}

// RenderStats prints a table with per-run image, timing and outcome totals
func RenderStats(results []contracts.RunResult) {

	data := make([][]string, 0)

	pullDurationTotal := 0.0
	runDurationTotal := 0.0
	imageSizeTotal := int64(0)
	statusTotal := contracts.GetAggregatedStatus(results)

	for _, r := range results {

		image := ""
		imageSize := ""
		imagePullDuration := ""
		runDuration := fmt.Sprintf("%.0f", r.Duration.Seconds())

		runDurationTotal += r.Duration.Seconds()

		if r.Image != nil {
			image = r.Image.Name
			imageSize = fmt.Sprintf("%v", r.Image.ImageSize/1024/1024)
			imagePullDuration = fmt.Sprintf("%.0f", r.Image.PullDuration.Seconds())

			pullDurationTotal += r.Image.PullDuration.Seconds()
			imageSizeTotal += r.Image.ImageSize
		}

		data = append(data, []string{
			r.TaskID,
			image,
			imageSize,
			imagePullDuration,
			runDuration,
			fmt.Sprintf("%v", r.ExitCode),
			colorizeStatus(r.Status),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Task", "Image", "Size (MB)", "Pull (s)", "Run (s)", "Exit", "Status"})
	table.SetFooter([]string{"", "Total", fmt.Sprintf("%v", imageSizeTotal/1024/1024), fmt.Sprintf("%.0f", pullDurationTotal), fmt.Sprintf("%.0f", runDurationTotal), "", colorizeStatus(statusTotal)})
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}

func colorizeStatus(status contracts.RunStatus) string {

	switch status {
	case contracts.RunStatusSucceeded:
		return aurora.Green(string(status)).String()
	case contracts.RunStatusFailed, contracts.RunStatusAborted:
		return aurora.Red(string(status)).String()
	case contracts.RunStatusTimedOut:
		return aurora.Yellow(string(status)).String()
	}

	return string(status)
}
