package tui

import (
	"fmt"
	"strings"
)

// helpMarkdown builds the usage guide from the key bindings
func helpMarkdown(keys KeyMap) string {
	var b strings.Builder

	b.WriteString("# Job Posting Analyzer\n\n")
	b.WriteString("Submit a job posting and get its key information back as JSON.\n\n")

	b.WriteString("## Input modes\n\n")
	b.WriteString("- **Text**: paste the posting. A blank posting is rejected.\n")
	b.WriteString("- **URL**: type the link, press `enter` to preview it. Submitting does not require a preview.\n")
	b.WriteString("- **PDF**: type the path of a PDF file and press `enter` to select it.\n\n")

	b.WriteString("## Providers\n\n")
	b.WriteString("- **Ollama** lists the models installed on the server's Ollama instance.\n")
	b.WriteString("- **OpenAI** and **DeepSeek** use the API keys configured on the server.\n\n")

	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}

	return b.String()
}
