package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"watrigger/config"
	"watrigger/models"
	"watrigger/store"
	"watrigger/tools"

	"github.com/jinzhu/gorm"
)

// Welcome menu button ids. The ids come back in interactive button_reply
// records and are routed below.
const buttonStartLeadGen = "start_lead_generation"
const buttonViewServices = "view_services"
const buttonContactSupport = "contact_support"

// processLeadFlow advances the sender through the trigger's questionnaire
// after an inbound message was stored. Send failures are logged and never
// bubble up: the webhook response must stay 200.
func processLeadFlow(ctx context.Context, db *gorm.DB, cfg config.Configuration, trigger *models.Trigger, in inboundMessage) {
	leads := store.LeadStore{DB: db}

	questions, err := leads.ListQuestions(trigger.ID)
	if err != nil {
		log.Printf("lead flow: questions query failed for trigger %d: %v", trigger.ID, err)
		return
	}
	if len(questions) == 0 {
		return
	}

	client := graphClient(cfg, trigger)

	lead, err := leads.GetByPhone(trigger.ID, in.From)
	if gorm.IsRecordNotFoundError(err) {
		if _, err := leads.Create(trigger.ID, in.From, in.ContactName); err != nil {
			log.Printf("lead flow: create lead failed for %s: %v", in.From, err)
			return
		}
		sendWelcome(ctx, client, trigger, in.From)
		return
	}
	if err != nil {
		log.Printf("lead flow: lead query failed for %s: %v", in.From, err)
		return
	}

	if in.ButtonID != "" {
		handleButton(ctx, leads, client, trigger, lead, questions, in)
		return
	}

	if lead.CurrentQuestion >= len(questions) {
		return
	}

	current := questions[lead.CurrentQuestion]
	next := lead.CurrentQuestion + 1
	status := models.LEAD_STATUS_ACTIVE
	if next >= len(questions) {
		status = models.LEAD_STATUS_COMPLETED
	}

	if err := leads.RecordResponse(lead, current.ID, in.Content, next, status); err != nil {
		log.Printf("lead flow: record response failed for lead %d: %v", lead.ID, err)
		return
	}

	if status == models.LEAD_STATUS_COMPLETED {
		sendCompletion(ctx, client, trigger, in.From)
		return
	}
	sendQuestion(ctx, client, in.From, questions[next])
}

func handleButton(ctx context.Context, leads store.LeadStore, client tools.WhatsAppClient, trigger *models.Trigger, lead *models.Lead, questions []models.LeadQuestion, in inboundMessage) {
	switch in.ButtonID {
	case buttonStartLeadGen:
		if err := leads.Restart(lead); err != nil {
			log.Printf("lead flow: restart failed for lead %d: %v", lead.ID, err)
			return
		}
		sendQuestion(ctx, client, in.From, questions[0])
	case buttonViewServices:
		sendText(ctx, client, in.From, "Here are our services... (This can be customized per business)")
	case buttonContactSupport:
		sendText(ctx, client, in.From, "Our support team will get back to you shortly. Thank you for contacting us!")
	default:
		// answer buttons of multiple_choice questions carry the title as
		// the recorded content; treat them like a text answer
		answered := in
		answered.ButtonID = ""
		if lead.CurrentQuestion < len(questions) {
			current := questions[lead.CurrentQuestion]
			next := lead.CurrentQuestion + 1
			status := models.LEAD_STATUS_ACTIVE
			if next >= len(questions) {
				status = models.LEAD_STATUS_COMPLETED
			}
			if err := leads.RecordResponse(lead, current.ID, answered.Content, next, status); err != nil {
				log.Printf("lead flow: record response failed for lead %d: %v", lead.ID, err)
				return
			}
			if status == models.LEAD_STATUS_COMPLETED {
				sendCompletion(ctx, client, trigger, in.From)
				return
			}
			sendQuestion(ctx, client, in.From, questions[next])
		}
	}
}

func sendWelcome(ctx context.Context, client tools.WhatsAppClient, trigger *models.Trigger, to string) {
	body := fmt.Sprintf("Hi 👋, thanks for reaching out to %s! How can we help you today?", trigger.BusinessName)
	if _, err := client.SendButtons(ctx, to, body, []tools.Button{
		{ID: buttonStartLeadGen, Title: "📋 Get Started"},
		{ID: buttonViewServices, Title: "📌 Our Services"},
		{ID: buttonContactSupport, Title: "📞 Talk to Us"},
	}); err != nil {
		log.Printf("lead flow: welcome send failed to %s: %v", to, err)
	}
}

func sendQuestion(ctx context.Context, client tools.WhatsAppClient, to string, q models.LeadQuestion) {
	if q.QuestionType == models.QUESTION_TYPE_MULTIPLE_CHOICE {
		var options []string
		if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
			log.Printf("lead flow: question %d has bad options, sending as text: %v", q.ID, err)
		}
		if len(options) > 0 {
			buttons := make([]tools.Button, 0, tools.MaxButtons)
			for i, opt := range options {
				if i >= tools.MaxButtons {
					break
				}
				buttons = append(buttons, tools.Button{
					ID:    fmt.Sprintf("q%d_option_%d", q.ID, i),
					Title: opt,
				})
			}
			if _, err := client.SendButtons(ctx, to, q.QuestionText, buttons); err != nil {
				log.Printf("lead flow: question send failed to %s: %v", to, err)
			}
			return
		}
	}
	sendText(ctx, client, to, q.QuestionText)
}

func sendCompletion(ctx context.Context, client tools.WhatsAppClient, trigger *models.Trigger, to string) {
	text := strings.TrimSpace(trigger.CompletionMessage)
	if text == "" {
		text = fmt.Sprintf(
			"🎉 Thank you for providing all the information!\n\n"+
				"Our team at %s has received your details and will contact you within 24 hours to discuss your requirements.\n\n"+
				"We appreciate your interest and look forward to helping you!\n\n"+
				"If you have any urgent questions, feel free to message us anytime.\n\n"+
				"Best regards,\n%s Team",
			trigger.BusinessName, trigger.BusinessName,
		)
	}
	sendText(ctx, client, to, text)
}

func sendText(ctx context.Context, client tools.WhatsAppClient, to string, text string) {
	if _, err := client.SendText(ctx, to, text); err != nil {
		log.Printf("lead flow: send failed to %s: %v", to, err)
	}
}
