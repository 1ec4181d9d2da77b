// Package extractor turns uploaded files into raw text. Unsupported
// extensions and extraction failures both yield empty text: callers treat
// empty text as "nothing to index", never as an error.
package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// codeExtensions mirrors the file types accepted for source-code indexing.
var codeExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".java": {}, ".cs": {}, ".cpp": {},
	".h": {}, ".c": {}, ".go": {}, ".rs": {}, ".rb": {}, ".php": {},
	".kt": {}, ".swift": {}, ".m": {}, ".scala": {}, ".pl": {}, ".pm": {},
	".lua": {}, ".r": {}, ".sh": {}, ".bat": {}, ".ps1": {}, ".json": {},
	".yaml": {}, ".yml": {}, ".xml": {}, ".html": {}, ".css": {}, ".sql": {},
	".dockerfile": {}, ".gitignore": {}, ".gitattributes": {},
}

// Extract returns the raw text of the file at path, dispatching on its
// extension. It never returns an error: corrupt files, I/O failures and
// unsupported extensions all degrade to "".
func Extract(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return extractPDF(path)
	case ext == ".docx":
		return extractDocx(path)
	case ext == ".xlsx":
		return extractXLSX(path)
	case ext == ".ods":
		return extractODS(path)
	case ext == ".md":
		return extractMarkdown(path)
	case ext == ".txt":
		return readTextFile(path)
	default:
		if _, ok := codeExtensions[ext]; ok {
			return readTextFile(path)
		}
		log.Debug().Str("path", path).Str("ext", ext).Msg("Unsupported file type, skipping")
		return ""
	}
}

func extractPDF(path string) (text string) {
	// ledongthuc/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("path", path).Interface("panic", r).Msg("Error processing PDF")
			text = ""
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error opening PDF")
		return ""
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error reading PDF")
		return ""
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error processing PDF")
		return ""
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Int("page", i).Msg("Error extracting PDF page")
			continue
		}
		sb.WriteString(pageText)
	}
	return sb.String()
}

func extractDocx(path string) string {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error processing DOCX")
		return ""
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var sb strings.Builder
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}

func extractXLSX(path string) string {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error processing XLSX")
		return ""
	}
	var sb strings.Builder
	for _, sheet := range f.Sheets {
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				sb.WriteString(cell.String() + "\t")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func extractODS(path string) string {
	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error processing ODS")
		return ""
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				sb.WriteString(cell + "\t")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// extractMarkdown strips markup by walking the goldmark AST and collecting
// the text segments in document order.
func extractMarkdown(path string) string {
	source := []byte(readTextFile(path))
	if len(source) == 0 {
		return ""
	}
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(source))

	var sb strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *gmast.FencedCodeBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				sb.Write(line.Value(source))
			}
		case *gmast.Paragraph, *gmast.Heading, *gmast.ListItem:
			sb.WriteString("\n")
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Error reading text file")
		return ""
	}
	return strings.ToValidUTF8(string(data), "�")
}
