package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/Batoli19/cavista/internal/analysis/intent"
	model "github.com/Batoli19/cavista/internal/model/dialog"
	"github.com/Batoli19/cavista/internal/model/project"
	"github.com/Batoli19/cavista/internal/service/export"
	"github.com/Batoli19/cavista/internal/service/gmail"
)

var (
	taskIDPattern = regexp.MustCompile(`\b(t\d+)\b`)
	numberPattern = regexp.MustCompile(`\b(\d+)\b`)
)

// handleCore runs the ordered handler chain over a normalized utterance. The
// order reproduces the dispatch contract: research intents outrank shortcut
// literals, which outrank keyword handlers, which outrank the chat fallback.
func (o *Orchestrator) handleCore(ctx context.Context, session *model.Session, text string, files []model.FileRef) model.Contract {
	cmd := strings.TrimSpace(strings.ToLower(text))

	intent.UpdateSlots(&session.Slots, text)
	if session.Slots.Domain != "" {
		session.Context.Domain = session.Slots.Domain
	}

	if intent.LooksCutoff(text) {
		return o.deps.Builder.Build(Draft{Summary: "Go on - what should I do?", Intent: "cutoff"})
	}

	tag := o.deps.Classifier.Classify(cmd, o.hasActiveProject(ctx))
	log.Printf("[dialog] intent=%s session=%s", tag, session.Key)

	if tag == intent.TagOpenGmail {
		o.openURL("https://mail.google.com")
		return o.deps.Builder.Build(Draft{
			Summary: "Opened Gmail in your browser.",
			Intent:  "open_gmail",
			SayText: "Opened Gmail.",
		})
	}

	if tag == intent.TagGmailSummary {
		return o.handleGmailSummary(ctx)
	}

	if strings.Contains(cmd, "open gmail setup guide") {
		o.openURL("http://localhost:8000/gmail_setup.html")
		return o.deps.Builder.Build(Draft{Summary: "Opened Gmail setup guide.", Intent: "gmail_setup"})
	}

	if cmd == "skip gmail" {
		return o.deps.Builder.Build(Draft{
			Summary:  "Okay, Gmail skipped.",
			Intent:   "gmail_skip",
			Question: "What should I do next",
		})
	}

	if strings.Contains(cmd, "specify country for research") {
		return o.deps.Builder.Build(Draft{
			Summary:  "Tell me the country and I will rerun research.",
			Intent:   "research",
			Question: "Which country should I use",
		})
	}

	if tag == intent.TagOpenYouTube {
		o.openURL("https://www.youtube.com")
		return o.deps.Builder.Build(Draft{
			Summary: "Opened YouTube in your browser.",
			Intent:  "open_youtube",
			SayText: "Opened YouTube.",
		})
	}

	if tag == intent.TagOpenNewTab {
		return o.deps.Builder.Build(Draft{
			Summary: "I can open the site in a new window. Which site should I open?",
			Actions: []model.Action{
				{Label: "Open Gmail", Command: "open gmail"},
				{Label: "Open YouTube", Command: "open youtube"},
				{Label: "Open Google", Command: "open google"},
			},
			Intent:  "open_new_tab",
			SayText: "Which site should I open?",
		})
	}

	if tag == intent.TagResearch {
		return o.handleResearch(ctx, session, text, cmd)
	}

	if tag == intent.TagResearchPlan {
		return o.handleResearchPlan(ctx, session, text, cmd)
	}

	if tag == intent.TagProjectAnalysis {
		return o.handleProjectAnalysis(ctx)
	}

	if len(files) > 0 && hasImages(files) {
		aiText := o.generateVision(ctx, text, files)
		return o.deps.Builder.Build(Draft{
			Summary:  aiText,
			Intent:   "vision_chat",
			SayText:  "I reviewed the images and prepared the answer.",
			Question: "Do you want a short summary or a task list",
		})
	}

	if intent.IsGreeting(cmd) {
		return o.deps.Builder.Build(Draft{
			Summary: "Hi. I can help you plan workflows, research options, and generate task plans.",
			Actions: []model.Action{
				{Label: "Create Workflow", Command: "make a project workflow for a health company"},
				{Label: "Web Research Plan", Command: "create a work plan for a health company with web research"},
			},
			Intent:   "greeting",
			Question: "What should I help you build first",
		})
	}

	if strings.Contains(cmd, "help") || strings.Contains(cmd, "what can you do") {
		return o.deps.Builder.Build(Draft{
			Summary: "I can create plans, run web research, and build task workflows.",
			Bullets: []string{
				"Planning: create project, generate plan, check status.",
				"Research: build plans using web sources and visual evidence.",
				"System actions: open notes, word, excel, youtube.",
			},
			Actions: []model.Action{
				{Label: "Plan Workflow", Command: "make a project workflow for a health company"},
				{Label: "Research + Plan", Command: "create a work plan for a health company with web research"},
			},
			Intent:   "help",
			Question: "Which option do you want to run",
		})
	}

	if strings.Contains(cmd, "what are you") || strings.Contains(cmd, "who are you") {
		return o.deps.Builder.Build(Draft{
			Summary: "I am your planning assistant for workflows, research, and execution steps.",
			Bullets: []string{
				"I create project workflows with phases and tasks.",
				"I research sources and attach evidence when useful.",
				"I give actionable next options you can run right away.",
			},
			Actions: []model.Action{
				{Label: "Create Workflow", Command: "make a project workflow for a health company"},
				{Label: "Research Plan", Command: "create a work plan for a health company with web research"},
			},
			Intent:   "identity",
			Question: "Do you want a workflow draft or a researched plan",
		})
	}

	if intent.NeedsWorkflowClarification(cmd) ||
		(strings.Contains(cmd, "workflow") &&
			(strings.Contains(cmd, "create") || strings.Contains(cmd, "make") || strings.Contains(cmd, "build"))) {
		if resp, ok := o.clarifyWorkflow(session); ok {
			return resp
		}
	}

	if strings.Contains(cmd, "open") {
		if resp, ok := o.handleOpen(cmd); ok {
			return resp
		}
	}

	if strings.Contains(cmd, "minimize") || strings.Contains(cmd, "hide windows") {
		return o.deps.Builder.Build(Draft{Summary: o.minimizeAll(), Intent: "system"})
	}

	if strings.Contains(cmd, "learn") && strings.Contains(cmd, "youtube") {
		return o.handleYouTubeLearning(ctx, text)
	}

	exportTarget := intent.ExportTarget(cmd)
	if exportTarget != "" && hasExportReference(cmd) {
		return o.handleExportReference(session, exportTarget)
	}

	if strings.Contains(cmd, "create") && strings.Contains(cmd, "project") {
		return o.handleCreateProject(ctx, session, text, cmd)
	}

	if strings.Contains(cmd, "plan") &&
		(strings.Contains(cmd, "generate") || strings.Contains(cmd, "make") || strings.Contains(cmd, "create")) {
		return o.handleGeneratePlan(ctx)
	}

	if strings.Contains(cmd, "status") || strings.Contains(cmd, "progress") || strings.Contains(cmd, "list tasks") {
		return o.handleStatus(ctx)
	}

	if strings.Contains(cmd, "doctor") || strings.Contains(cmd, "diagnose") {
		return o.handleDiagnostics(ctx)
	}

	if strings.Contains(cmd, "done") || strings.Contains(cmd, "finish") || strings.Contains(cmd, "complete") {
		return o.handleTaskDone(ctx, cmd)
	}

	if strings.Contains(cmd, "delay") {
		return o.handleTaskDelay(ctx, cmd)
	}

	if strings.Contains(cmd, "export") || strings.Contains(cmd, "save") {
		return o.handleProjectExport(ctx, session, cmd)
	}

	aiText := o.generateText(ctx, text)
	return o.deps.Builder.Build(Draft{
		Summary:  aiText,
		Intent:   "chat",
		Question: "Do you want me to turn this into a task plan",
	})
}

func (o *Orchestrator) handleResearch(ctx context.Context, session *model.Session, text, cmd string) model.Contract {
	topic := intent.ExtractResearchTopic(text)

	countryHintMissing := strings.Contains(cmd, "country") && session.Context.Country == ""
	if countryHintMissing && (strings.Contains(cmd, "our country") || !strings.Contains(cmd, " in ")) {
		return o.deps.Builder.Build(Draft{
			Summary: "I can run that research, but I need the country first.",
			Actions: []model.Action{
				{Label: "Botswana", Command: fmt.Sprintf("research %s in Botswana", topic)},
				{Label: "United States", Command: fmt.Sprintf("research %s in United States", topic)},
				{Label: "Specify country", Command: "specify country for research"},
			},
			Intent:   "research",
			SayText:  "Which country should I use for this research?",
			Question: "Which country should I focus on",
			Debug:    map[string]any{"sourceCount": 0, "researchReason": "country_missing"},
		})
	}

	needsEvidence := strings.Contains(cmd, "evidence")
	if o.deps.Research == nil {
		return o.deps.Builder.Build(Draft{
			Summary: "Research is not configured on this install.",
			Intent:  "research",
		})
	}
	result := o.deps.Research.Research(ctx, topic, 6, needsEvidence)

	researchObj := toResearchObject(topic, result)
	sourceCount := len(researchObj.Sources)
	hasSummary := strings.TrimSpace(researchObj.Summary) != ""
	if sourceCount > 0 || hasSummary {
		session.LastResearch = researchObj
		session.LastIntent = "research"
	}
	session.Context.Topic = topic
	if strings.Contains(strings.ToLower(topic), "botswana") {
		session.Context.Country = "Botswana"
	}

	if sourceCount < 3 {
		reason := result.Meta.Reason
		if reason == "" {
			reason = "insufficient_sources"
		}
		reasonLine := "The query is too broad or unclear."
		if reason == "provider_failure" {
			reasonLine = "Research provider failed or timed out."
		}
		return o.deps.Builder.Build(Draft{
			Summary: "I could not gather enough reliable sources yet.",
			Bullets: []string{reasonLine, "I need one detail to improve source quality."},
			Actions: []model.Action{
				{Label: "Retry research", Command: fmt.Sprintf("research %s", topic)},
				{Label: "Continue without sources", Command: fmt.Sprintf("continue without sources for %s", topic)},
				{Label: "Specify country", Command: fmt.Sprintf("research %s in Botswana", topic)},
			},
			Intent:   "research",
			SayText:  "I need one more detail before I continue research.",
			Question: "Which country or sub-topic should I focus on",
			Debug:    map[string]any{"researchReason": reason, "sourceCount": sourceCount},
		})
	}

	bullets := []string{
		fmt.Sprintf("I found %d sources.", sourceCount),
		"I stored this research for follow-up exports.",
	}
	if needsEvidence && len(result.Evidence) == 0 {
		bullets = append(bullets, "No reliable visuals found.")
	}
	return o.deps.Builder.Build(Draft{
		Summary:  fmt.Sprintf("I researched %s.", topic),
		Bullets:  bullets,
		Sources:  researchObj.Sources,
		Evidence: result.Evidence,
		Actions: []model.Action{
			{Label: "Export to Word", Command: "export that to word"},
			{Label: "Create PowerPoint", Command: "make a powerpoint from this"},
			{Label: "Export to Excel", Command: "export to excel"},
		},
		Intent:  "research",
		SayText: "Research is ready.",
		Debug:   map[string]any{"sourceCount": sourceCount, "needsEvidence": needsEvidence},
	})
}

func (o *Orchestrator) handleResearchPlan(ctx context.Context, session *model.Session, text, cmd string) model.Contract {
	if o.deps.Planner == nil {
		return o.deps.Builder.Build(Draft{
			Summary: "Research planning is not configured on this install.",
			Intent:  "research_plan",
		})
	}

	enriched := text
	if session.Slots.ComplianceLevel != "" && !strings.Contains(cmd, session.Slots.ComplianceLevel) {
		enriched += fmt.Sprintf(" with %s compliance", session.Slots.ComplianceLevel)
	}

	result, err := o.deps.Planner.PlanFromWebRequest(ctx, enriched)
	if err != nil {
		return o.deps.Builder.Build(Draft{
			Summary: "I could not build the researched plan right now.",
			Bullets: []string{"Please retry in a moment."},
			Intent:  "research_plan",
		})
	}

	imageEvidence := 0
	for _, e := range result.Evidence {
		if strings.EqualFold(e.Type, "image") {
			imageEvidence++
		}
	}

	keyPoints := make([]string, 0, 5)
	for i, s := range result.Sources {
		if i == 5 {
			break
		}
		note := s.Note
		if note == "" {
			note = "overview"
		}
		keyPoints = append(keyPoints, fmt.Sprintf("%s: %s", s.Title, note))
	}
	session.LastResearch = &model.Research{
		Topic:     firstNonEmpty(result.Topic, result.Project.Name, "Research"),
		Summary:   result.Summary,
		KeyPoints: keyPoints,
		Sources:   result.Sources,
	}
	session.LastIntent = "research_plan"

	sayText := fmt.Sprintf("Your researched workflow is ready with %d tasks.", len(result.Tasks))
	if imageEvidence > 0 {
		sayText = fmt.Sprintf("Your researched workflow is ready with %d tasks and visual evidence.", len(result.Tasks))
	}
	return o.deps.Builder.Build(Draft{
		Summary: fmt.Sprintf("Created %q with a researched workflow plan.", result.Project.Name),
		Bullets: []string{
			fmt.Sprintf("Generated %d tasks.", len(result.Tasks)),
			fmt.Sprintf("Attached %d evidence image(s).", imageEvidence),
		},
		Sections: result.Phases,
		Sources:  result.Sources,
		Evidence: result.Evidence,
		Actions: []model.Action{
			{Label: "Export Plan", Command: "export plan"},
			{Label: "Refine Workflow", Command: "refine this workflow with compliance focus"},
			{Label: "Run Audit First", Command: "doctor"},
		},
		Intent:   "research_plan",
		SayText:  sayText,
		Question: "Do you want me to export this plan or refine it first",
	})
}

func (o *Orchestrator) handleProjectAnalysis(ctx context.Context) model.Contract {
	p, ok := o.activeProject(ctx)
	if !ok {
		return o.deps.Builder.Build(Draft{
			Summary: "No active project available for analysis.",
			Intent:  "project_analysis",
		})
	}
	diags, err := o.deps.Projects.Diagnose(ctx, p.ID)
	if err != nil {
		return o.deps.Builder.Build(Draft{
			Summary: "I could not analyze the project right now.",
			Intent:  "project_analysis",
		})
	}
	if len(diags) > 5 {
		diags = diags[:5]
	}
	return o.deps.Builder.Build(Draft{
		Summary: "I analyzed project risk and status.",
		Bullets: diags,
		Intent:  "project_analysis",
		SayText: "Project analysis is ready.",
	})
}

func (o *Orchestrator) handleGmailSummary(ctx context.Context) model.Contract {
	setupDraft := Draft{
		Summary: "I need Gmail access first.",
		Bullets: []string{
			"Install Gmail dependencies and add OAuth credentials.",
			"Open the local setup guide for exact steps.",
		},
		Actions: []model.Action{
			{Label: "Setup Gmail", Command: "open gmail setup guide"},
			{Label: "Skip Gmail", Command: "skip gmail"},
		},
		Intent:  "gmail_summary",
		SayText: "I need Gmail access first.",
	}
	if o.deps.Gmail == nil {
		return o.deps.Builder.Build(setupDraft)
	}

	email, err := o.deps.Gmail.LastEmail(ctx)
	if err != nil {
		if errors.Is(err, gmail.ErrSetupRequired) {
			setupDraft.Bullets = []string{
				"Put credentials.json in the project root.",
				"Run Gmail setup once, then retry.",
				"Guide: /gmail_setup.html",
			}
			return o.deps.Builder.Build(setupDraft)
		}
		return o.deps.Builder.Build(Draft{
			Summary: "I could not read Gmail right now.",
			Bullets: []string{"Please retry in a moment."},
			Intent:  "gmail_summary",
			SayText: "I could not read Gmail right now.",
		})
	}

	summary, err := o.deps.Gmail.Summarize(ctx, email)
	if err != nil {
		summary = "Summary unavailable."
	}
	return o.deps.Builder.Build(Draft{
		Summary: "I summarized your latest email.",
		Bullets: []string{
			"From: " + firstNonEmpty(email.From, "Unknown"),
			"Subject: " + firstNonEmpty(email.Subject, "No subject"),
			summary,
		},
		Intent:  "gmail_summary",
		SayText: "I summarized your latest email.",
	})
}

// clarifyWorkflow surfaces at most two missing-slot questions plus two
// domain-tailored quick replies. Returns ok=false when every required slot is
// already filled so the chain continues toward plan generation.
func (o *Orchestrator) clarifyWorkflow(session *model.Session) (model.Contract, bool) {
	var missing []string
	if session.Slots.CompanyName == "" {
		missing = append(missing, "Which company or team is this for?")
	}
	if session.Slots.WorkflowArea == "" {
		missing = append(missing, "Which workflow area should I target?")
	}
	if session.Slots.Goal == "" {
		missing = append(missing, "What is your primary goal for this workflow?")
	}
	if session.Slots.ComplianceLevel == "" {
		missing = append(missing, "Any compliance level should I apply?")
	}
	if len(missing) == 0 {
		return model.Contract{}, false
	}
	if len(missing) > 2 {
		missing = missing[:2]
	}

	domain := session.Slots.Domain
	if domain == "" {
		domain = "health"
	}
	var quickActions []model.Action
	if domain == "health" {
		quickActions = []model.Action{
			{Label: "Claims Workflow", Command: "build claims workflow for a health company with hipaa compliance"},
			{Label: "Onboarding Workflow", Command: "build onboarding workflow for a health company"},
		}
	} else {
		quickActions = []model.Action{
			{Label: "Operations Workflow", Command: fmt.Sprintf("build operations workflow for a %s company", domain)},
			{Label: "Compliance Workflow", Command: fmt.Sprintf("build compliance workflow for a %s company", domain)},
		}
	}
	return o.deps.Builder.Build(Draft{
		Summary:  "I can build that workflow, and I need a couple details first.",
		Bullets:  missing,
		Actions:  quickActions,
		Intent:   "clarify_workflow",
		Question: "Which option should I use",
	}), true
}

func (o *Orchestrator) handleOpen(cmd string) (model.Contract, bool) {
	switch {
	case strings.Contains(cmd, "youtube"):
		return o.deps.Builder.Build(Draft{Summary: o.openURL("https://www.youtube.com"), Intent: "open_url"}), true
	case strings.Contains(cmd, "note"), strings.Contains(cmd, "notepad"):
		return o.deps.Builder.Build(Draft{Summary: o.openApp("notes"), Intent: "open_app"}), true
	case strings.Contains(cmd, "word"):
		return o.deps.Builder.Build(Draft{Summary: o.openApp("word"), Intent: "open_app"}), true
	case strings.Contains(cmd, "excel"):
		return o.deps.Builder.Build(Draft{Summary: o.openApp("excel"), Intent: "open_app"}), true
	case strings.Contains(cmd, "url"), strings.Contains(cmd, "browser"), strings.Contains(cmd, "google"):
		return o.deps.Builder.Build(Draft{Summary: o.openURL("https://www.google.com"), Intent: "open_url"}), true
	}
	return model.Contract{}, false
}

func (o *Orchestrator) handleYouTubeLearning(ctx context.Context, text string) model.Contract {
	if o.deps.Learner == nil {
		return o.deps.Builder.Build(Draft{
			Summary: "YouTube learning is not configured on this install.",
			Intent:  "learning",
		})
	}
	lesson, err := o.deps.Learner.LearnFromYouTube(ctx, text)
	if err != nil {
		return o.deps.Builder.Build(Draft{
			Summary: "Could not process this YouTube request. " + err.Error(),
			Intent:  "learning",
		})
	}
	return o.deps.Builder.Build(Draft{
		Summary: fmt.Sprintf("I learned from %s.", firstNonEmpty(lesson.Title, "the video")),
		Bullets: []string{
			"I extracted key lessons and action steps.",
			"I can convert this into a project workflow next.",
		},
		Intent:   "youtube_learning",
		SayText:  "I finished learning from the video and prepared the key takeaways.",
		Question: "Do you want this turned into a workflow",
	})
}

// hasExportReference checks for a backward-reference cue so plain mentions of
// Word or Excel do not trigger a file export.
func hasExportReference(cmd string) bool {
	for _, k := range []string{"that", "this", "it", "research", "from this", "use the research"} {
		if strings.Contains(cmd, k) {
			return true
		}
	}
	return strings.HasPrefix(cmd, "export to ") ||
		strings.HasPrefix(cmd, "make a powerpoint") ||
		strings.HasPrefix(cmd, "make powerpoint")
}

func (o *Orchestrator) handleExportReference(session *model.Session, target string) model.Contract {
	if session.LastResearch == nil {
		return o.deps.Builder.Build(Draft{Summary: "What should I research first?", Intent: "export"})
	}
	if o.deps.Exports == nil {
		return o.deps.Builder.Build(Draft{Summary: "Exporting is not configured on this install.", Intent: "export"})
	}

	fileMeta, err := o.deps.Exports.Export(target, session.LastResearch)
	if err != nil {
		var missing *export.MissingDependencyError
		if errors.As(err, &missing) {
			return o.deps.Builder.Build(Draft{
				Summary: fmt.Sprintf("Export is not available until I install %s.", missing.Dependency),
				Bullets: []string{
					fmt.Sprintf("Install %s, then retry your export command.", missing.Dependency),
				},
				Intent:  "export",
				SayText: fmt.Sprintf("Export is not available until I install %s.", missing.Dependency),
			})
		}
		return o.deps.Builder.Build(Draft{
			Summary: "The export failed. Please retry in a moment.",
			Intent:  "export",
		})
	}

	session.LastFiles = []model.FileMeta{fileMeta}
	session.Artifacts = append(session.Artifacts, model.ArtifactRef{
		ID:   fileMeta.ID,
		Name: fileMeta.Name,
		Type: fileMeta.Type,
	})
	session.LastIntent = "export_" + target

	return o.deps.Builder.Build(Draft{
		Summary: fmt.Sprintf("%s export is ready.", strings.ToUpper(fileMeta.Type)),
		Bullets: []string{fmt.Sprintf("Created %s.", fileMeta.Name)},
		Files:   []model.FileMeta{fileMeta},
		Intent:  "export_" + target,
		SayText: "Your export is ready for download.",
	})
}

func (o *Orchestrator) handleCreateProject(ctx context.Context, session *model.Session, text, cmd string) model.Contract {
	if o.deps.Projects == nil {
		return o.deps.Builder.Build(Draft{Summary: "Project planning is not configured on this install.", Intent: "create_project"})
	}

	name := cmd
	for _, prefix := range []string{"create project", "new project", "create a project"} {
		if strings.Contains(cmd, prefix) {
			name = strings.TrimSpace(strings.Replace(strings.ToLower(text), prefix, "", 1))
			break
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "untitled project"
	}
	name = titleWords(name)

	p, err := o.deps.Projects.Create(ctx, name, "")
	if err != nil {
		return o.deps.Builder.Build(Draft{Summary: "I could not create the project right now.", Intent: "create_project"})
	}
	if session.Slots.CompanyName == "" {
		session.Slots.CompanyName = name
	}
	return o.deps.Builder.Build(Draft{
		Summary:  fmt.Sprintf("Created project %q.", p.Name),
		Actions:  []model.Action{{Label: "Generate Plan", Command: "generate plan"}},
		Intent:   "create_project",
		SayText:  "Project created.",
		Question: "Do you want me to generate the first workflow now",
	})
}

func (o *Orchestrator) handleGeneratePlan(ctx context.Context) model.Contract {
	p, ok := o.activeProject(ctx)
	if !ok {
		return o.deps.Builder.Build(Draft{
			Summary: "No active project found.",
			Bullets: []string{"Create a project first."},
			Intent:  "plan",
		})
	}
	tasks, err := o.deps.Projects.GeneratePlan(ctx, p)
	if err != nil {
		return o.deps.Builder.Build(Draft{Summary: "Plan generation failed. Please retry.", Intent: "plan"})
	}
	if err := o.deps.Projects.SaveTasks(ctx, p.ID, tasks); err != nil {
		log.Printf("[dialog] failed to save tasks for project=%s: %v", p.ID, err)
	}
	return o.deps.Builder.Build(Draft{
		Summary:  fmt.Sprintf("Generated %d tasks for %q.", len(tasks), p.Name),
		Sections: taskSections(tasks),
		Actions: []model.Action{
			{Label: "Show Status", Command: "status"},
			{Label: "Export Plan", Command: "export plan"},
		},
		Intent:   "plan",
		SayText:  fmt.Sprintf("I generated %d tasks.", len(tasks)),
		Question: "Do you want timeline status next",
	})
}

func (o *Orchestrator) handleStatus(ctx context.Context) model.Contract {
	p, ok := o.activeProject(ctx)
	if !ok {
		return o.deps.Builder.Build(Draft{Summary: "No active project.", Intent: "status"})
	}
	status, err := o.deps.Projects.Status(ctx, p)
	if err != nil {
		return o.deps.Builder.Build(Draft{Summary: "I could not read project status right now.", Intent: "status"})
	}
	return o.deps.Builder.Build(Draft{
		Summary:  status.Message,
		Intent:   "status",
		Question: "Do you want a detailed task breakdown",
	})
}

func (o *Orchestrator) handleDiagnostics(ctx context.Context) model.Contract {
	p, ok := o.activeProject(ctx)
	if !ok {
		return o.deps.Builder.Build(Draft{Summary: "No active project.", Intent: "diagnostics"})
	}
	diags, err := o.deps.Projects.Diagnose(ctx, p.ID)
	if err != nil {
		return o.deps.Builder.Build(Draft{Summary: "Diagnostics failed. Please retry.", Intent: "diagnostics"})
	}
	if len(diags) > 5 {
		diags = diags[:5]
	}
	return o.deps.Builder.Build(Draft{
		Summary:  "I reviewed project risk and health status.",
		Bullets:  diags,
		Intent:   "diagnostics",
		Question: "Do you want mitigation actions for the top risks",
	})
}

func (o *Orchestrator) handleTaskDone(ctx context.Context, cmd string) model.Contract {
	m := taskIDPattern.FindStringSubmatch(cmd)
	if m == nil {
		return o.deps.Builder.Build(Draft{
			Summary: "Please specify a task ID, for example: mark t1 done.",
			Intent:  "task_update",
		})
	}
	if o.deps.Projects == nil {
		return o.deps.Builder.Build(Draft{Summary: "No active project.", Intent: "task_update"})
	}
	msg, err := o.deps.Projects.MarkDone(ctx, m[1])
	if err != nil {
		msg = err.Error()
	}
	return o.deps.Builder.Build(Draft{Summary: msg, Intent: "task_update"})
}

func (o *Orchestrator) handleTaskDelay(ctx context.Context, cmd string) model.Contract {
	taskMatch := taskIDPattern.FindStringSubmatch(cmd)
	dayMatch := numberPattern.FindStringSubmatch(strings.Replace(cmd, firstMatch(taskMatch), "", 1))
	if taskMatch == nil || dayMatch == nil {
		return o.deps.Builder.Build(Draft{
			Summary: "Use: delay task t1 by 2 days.",
			Intent:  "task_update",
		})
	}
	if o.deps.Projects == nil {
		return o.deps.Builder.Build(Draft{Summary: "No active project.", Intent: "task_update"})
	}
	days, _ := strconv.Atoi(dayMatch[1])
	msg, err := o.deps.Projects.Delay(ctx, taskMatch[1], days)
	if err != nil {
		msg = err.Error()
	}
	return o.deps.Builder.Build(Draft{Summary: msg, Intent: "task_update"})
}

// handleProjectExport exports the active project's plan or schedule, reusing
// the research exporters over a research object built from the task list.
func (o *Orchestrator) handleProjectExport(ctx context.Context, session *model.Session, cmd string) model.Contract {
	p, ok := o.activeProject(ctx)
	if !ok {
		return o.deps.Builder.Build(Draft{Summary: "No active project.", Intent: "export"})
	}
	if o.deps.Exports == nil {
		return o.deps.Builder.Build(Draft{Summary: "Exporting is not configured on this install.", Intent: "export"})
	}

	status, err := o.deps.Projects.Status(ctx, p)
	if err != nil {
		return o.deps.Builder.Build(Draft{Summary: "I could not read the project plan right now.", Intent: "export"})
	}

	kind := "docx"
	label := "Plan"
	if strings.Contains(cmd, "excel") || strings.Contains(cmd, "schedule") {
		kind = "xlsx"
		label = "Schedule"
	}

	fileMeta, err := o.deps.Exports.Export(kind, projectResearch(p, status.Schedule))
	if err != nil {
		var missing *export.MissingDependencyError
		if errors.As(err, &missing) {
			return o.deps.Builder.Build(Draft{
				Summary: fmt.Sprintf("Export is not available until I install %s.", missing.Dependency),
				Bullets: []string{fmt.Sprintf("Install %s, then retry.", missing.Dependency)},
				Intent:  "export",
				SayText: fmt.Sprintf("Export is not available until I install %s.", missing.Dependency),
			})
		}
		return o.deps.Builder.Build(Draft{Summary: "The export failed. Please retry in a moment.", Intent: "export"})
	}

	session.Artifacts = append(session.Artifacts, model.ArtifactRef{
		ID:   fileMeta.ID,
		Name: fileMeta.Name,
		Type: fileMeta.Type,
	})
	return o.deps.Builder.Build(Draft{
		Summary: fmt.Sprintf("%s exported successfully.", label),
		Bullets: []string{fmt.Sprintf("Saved to: %s", fileMeta.Name)},
		Files:   []model.FileMeta{fileMeta},
		Intent:  "export",
	})
}

// --- helpers ---

func (o *Orchestrator) activeProject(ctx context.Context) (*project.Project, bool) {
	if o.deps.Projects == nil {
		return nil, false
	}
	return o.deps.Projects.Active(ctx)
}

func (o *Orchestrator) openURL(url string) string {
	if o.deps.OSActions == nil {
		return "Opening URLs is not configured on this install."
	}
	return o.deps.OSActions.OpenURL(url)
}

func (o *Orchestrator) openApp(name string) string {
	if o.deps.OSActions == nil {
		return "Opening apps is not configured on this install."
	}
	return o.deps.OSActions.OpenApp(name)
}

func (o *Orchestrator) minimizeAll() string {
	if o.deps.OSActions == nil {
		return "Window control is not configured on this install."
	}
	return o.deps.OSActions.MinimizeAll()
}

func (o *Orchestrator) generateText(ctx context.Context, prompt string) string {
	if o.deps.AI == nil {
		return "I captured your request, but no AI provider is configured."
	}
	return o.deps.AI.GenerateText(ctx, prompt)
}

func (o *Orchestrator) generateVision(ctx context.Context, prompt string, files []model.FileRef) string {
	if o.deps.AI == nil {
		return "I captured the images, but no vision provider is configured."
	}
	return o.deps.AI.GenerateVision(ctx, prompt, files)
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tiff"}

func hasImages(files []model.FileRef) bool {
	for _, f := range files {
		mime := strings.ToLower(f.Type)
		name := strings.ToLower(f.Name)
		if strings.HasPrefix(mime, "image/") {
			return true
		}
		for _, ext := range imageExtensions {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
	}
	return false
}

// toResearchObject flattens the collaborator result into the session shape
// consumed by later export commands.
func toResearchObject(topic string, result *ResearchResult) *model.Research {
	keyPoints := make([]string, 0, 5)
	for i, row := range result.Raw {
		if i == 5 {
			break
		}
		keyPoints = append(keyPoints, fmt.Sprintf("%s: %s", row.Title, row.Summary))
	}
	return &model.Research{
		Topic:     topic,
		Summary:   result.Summary,
		KeyPoints: keyPoints,
		Sources:   result.Sources,
	}
}

// projectResearch adapts a project's plan into the exporter's research shape:
// tasks become key points, durations become chartable data points.
func projectResearch(p *project.Project, tasks []project.Task) *model.Research {
	research := &model.Research{
		Topic:   p.Name,
		Summary: p.Description,
	}
	for _, t := range tasks {
		research.KeyPoints = append(research.KeyPoints,
			fmt.Sprintf("%s (%d day)", t.Name, t.DurationDays))
		research.DataPoints = append(research.DataPoints, model.DataPoint{
			Label: t.Name,
			Value: float64(t.DurationDays),
		})
	}
	return research
}

func taskSections(tasks []project.Task) []model.Section {
	if len(tasks) == 0 {
		return nil
	}
	var chunks [][]project.Task
	if len(tasks) > 3 {
		chunks = append(chunks, tasks[:3])
		if len(tasks) > 6 {
			chunks = append(chunks, tasks[3:6], tasks[6:])
		} else {
			chunks = append(chunks, tasks[3:])
		}
	} else {
		chunks = append(chunks, tasks)
	}

	sections := make([]model.Section, 0, len(chunks))
	for i, group := range chunks {
		items := make([]string, 0, len(group))
		for _, t := range group {
			items = append(items, fmt.Sprintf("%s (%d day)", t.Name, t.DurationDays))
		}
		sections = append(sections, model.Section{
			Title: fmt.Sprintf("Phase %d", i+1),
			Items: items,
		})
	}
	return sections
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func firstMatch(m []string) string {
	if len(m) > 1 {
		return m[1]
	}
	return ""
}
