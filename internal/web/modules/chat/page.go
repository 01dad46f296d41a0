package chat

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	chatcore "github.com/nguyennehehe/banking-chatbot/pkg/chat"
	"github.com/nguyennehehe/banking-chatbot/pkg/media"
	"github.com/nguyennehehe/banking-chatbot/pkg/utils"
)

// pageTemplate renders the single-page chat surface: background image,
// intro copy, transcript, voice controls, and the streamed reply box
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Banking Chatbot</title>
{{.BackgroundCSS}}
<style>
.page { max-width: 720px; margin: 0 auto; padding: 2em; font-family: sans-serif; }
.chat { background: rgba(255,255,255,0.92); border-radius: 8px; padding: 1em; }
.turn { margin: 0.5em 0; padding: 0.5em 0.75em; border-radius: 6px; }
.turn.user { background: #e8f0fe; }
.turn.assistant { background: #f1f3f4; }
.error { color: #b00020; }
details { margin-bottom: 1em; }
</style>
</head>
<body>
<div class="page">
<h1>&#127974; Banking Chatbot</h1>
<details>
<summary>What is this app about?</summary>
<p>This bot was created by <strong>The Byte Squad!</strong></p>
<p>You are currently interacting with a finance-focused chatbot designed to
provide you with smart and personalized financial insights. Running on a
curated dataset tailored for the financial sector, we are ready to assist
you with financial management, debt repayment planning, and much more.</p>
<p><strong>How to use:</strong> to begin, you will be asked to enter your
customer ID. Since this is a small dataset, you can use one of the
following sample IDs: 1, 2, 3, 4, 5. Once your customer ID is confirmed,
you can inquire about details such as your balance, loan balances, credit
score, debt, and similar financial information. You can enable or disable
speech output using the toggle below.</p>
</details>
<div>
<label>Chatbot voice:
<select id="voice">
{{range .Voices}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</label>
<label><input type="checkbox" id="speech"> Enable speech output?</label>
</div>
<div class="chat">
<div id="transcript"></div>
<div id="inprogress" class="turn assistant" hidden></div>
<div id="audio"></div>
<div id="error" class="error"></div>
</div>
<form id="prompt-form">
<input id="prompt" placeholder="Input a prompt..." size="60">
<button type="submit">Send</button>
</form>
</div>
<script>
const apiKey = {{.APIKey}};
let sessionId = null;

function addTurn(role, content) {
  const div = document.createElement("div");
  div.className = "turn " + role;
  div.textContent = content;
  document.getElementById("transcript").appendChild(div);
}

async function ensureSession() {
  if (sessionId) return sessionId;
  const resp = await fetch("/api/chat/sessions", {
    method: "POST",
    headers: {"Content-Type": "application/json", "X-API-KEY": apiKey},
    body: JSON.stringify({user_id: "web-user"}),
  });
  const body = await resp.json();
  sessionId = body.data.id;
  for (const turn of body.data.turns) addTurn(turn.role, turn.content);
  return sessionId;
}

async function send(content) {
  const id = await ensureSession();
  const box = document.getElementById("inprogress");
  box.hidden = false;
  box.textContent = "";
  document.getElementById("error").textContent = "";

  const resp = await fetch("/api/chat/sessions/" + id + "/message", {
    method: "POST",
    headers: {"Content-Type": "application/json", "X-API-KEY": apiKey},
    body: JSON.stringify({
      content: content,
      speech: document.getElementById("speech").checked,
      voice: document.getElementById("voice").value,
    }),
  });

  addTurn("user", content);

  const reader = resp.body.getReader();
  const decoder = new TextDecoder();
  let buffer = "";
  while (true) {
    const {done, value} = await reader.read();
    if (done) break;
    buffer += decoder.decode(value, {stream: true});
    let sep;
    while ((sep = buffer.indexOf("\n\n")) >= 0) {
      handleEvent(buffer.slice(0, sep));
      buffer = buffer.slice(sep + 2);
    }
  }
}

function handleEvent(raw) {
  let event = "", data = "";
  for (const line of raw.split("\n")) {
    if (line.startsWith("event:")) event = line.slice(6).trim();
    if (line.startsWith("data:")) data = line.slice(5).trim();
  }
  const box = document.getElementById("inprogress");
  if (event === "delta") {
    box.textContent = JSON.parse(data).text;
  } else if (event === "error") {
    document.getElementById("error").textContent = JSON.parse(data).message;
  } else if (event === "done") {
    const result = JSON.parse(data);
    box.hidden = true;
    addTurn("assistant", result.reply.content);
    if (result.audio_data_uri) {
      document.getElementById("audio").innerHTML =
        '<audio controls autoplay><source src="' + result.audio_data_uri + '" type="audio/mpeg"></audio>';
    }
    if (result.audio_error) {
      document.getElementById("error").textContent = result.audio_error;
    }
  }
}

document.getElementById("prompt-form").addEventListener("submit", (e) => {
  e.preventDefault();
  const input = document.getElementById("prompt");
  if (input.value.trim()) send(input.value.trim());
  input.value = "";
});
</script>
</body>
</html>
`))

type pageData struct {
	BackgroundCSS template.HTML
	Voices        []chatcore.Voice
	APIKey        string
}

// RegisterPage serves the chat page at the root path
func RegisterPage(engine *gin.Engine, cfg *utils.Config, log *zap.Logger) {
	var backgroundCSS template.HTML
	if path := cfg.Get("BACKGROUND_IMAGE"); path != "" {
		css, err := media.BackgroundCSS(path)
		if err != nil {
			log.Warn("background image unavailable", zap.String("path", path), zap.Error(err))
		} else {
			backgroundCSS = template.HTML(css)
		}
	}

	data := pageData{
		BackgroundCSS: backgroundCSS,
		Voices:        chatcore.Voices(),
		APIKey:        cfg.Get("API_KEY"),
	}

	engine.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(c.Writer, data); err != nil {
			log.Error("failed to render chat page", zap.Error(err))
		}
	})
}
