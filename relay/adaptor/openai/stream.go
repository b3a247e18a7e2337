package openai

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/helper"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

const dataPrefix = "data:"
const doneMarker = "[DONE]"

// StreamHandler forwards an OpenAI-shape SSE stream to the client event by
// event, in order, without buffering the whole response. Along the way it
// captures the usage block (typically only the final chunk carries one) so
// the caller can bill after the stream ends. If the upstream body ends
// without a [DONE] marker, one is synthesized so clients always see a
// well-terminated stream.
func StreamHandler(c *gin.Context, resp *http.Response) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	defer func() { _ = resp.Body.Close() }()
	lg := gmw.GetLogger(c)

	common.SetEventStreamHeaders(c)
	flusher, _ := c.Writer.(http.Flusher)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Split(scanSSERecords)
	helper.ConfigureScannerBuffer(scanner)

	var usage *relaymodel.Usage
	doneSeen := false

	for scanner.Scan() {
		record := scanner.Text()
		if strings.TrimSpace(record) == "" {
			continue
		}

		// Inspect before forwarding; forwarding must stay verbatim.
		for _, line := range strings.Split(record, "\n") {
			payload, ok := strings.CutPrefix(line, dataPrefix)
			if !ok {
				continue
			}
			payload = strings.TrimSpace(payload)
			if payload == doneMarker {
				doneSeen = true
				continue
			}
			var chunk relaymodel.ChatCompletionStreamResponse
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}
			if chunk.Usage != nil {
				usage = chunk.Usage
			}
		}

		if _, err := c.Writer.WriteString(record + "\n\n"); err != nil {
			lg.Debug("client stream write failed; stopping relay", zap.Error(err))
			return usage, nil
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	if err := scanner.Err(); err != nil {
		// Mid-stream upstream failure: the client stream is already open, so
		// billing proceeds with whatever usage was captured.
		lg.Warn("upstream stream read failed", zap.Error(err))
	}

	if !doneSeen {
		if _, err := c.Writer.WriteString(dataPrefix + " " + doneMarker + "\n\n"); err == nil && flusher != nil {
			flusher.Flush()
		}
	}

	if usage != nil && usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage, nil
}

// scanSSERecords splits a byte stream on blank lines, the SSE record
// separator. A trailing partial record at EOF is returned as-is.
func scanSSERecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, bytes.TrimSuffix(data[:i], []byte("\r")), nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
