// README: Sends one message to the delivery assistant and prints the parsed intent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"pabili/internal/ai"
	"pabili/internal/config"
)

func main() {
	message := flag.String("m", "Pabili ng 5kg bigas sa SM Megamall, dalhin sa Kapitolyo, Pasig. Mga 1 oras lang.", "customer message")
	location := flag.String("loc", "", "device location as lat,lng")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.AI.GeminiKey == "" {
		log.Fatal("PABILI_AI_GEMINI_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		log.Fatalf("init assistant: %v", err)
	}
	defer provider.Close()

	currentContext := map[string]string{
		"current_time": time.Now().Format(time.RFC3339),
	}
	if *location != "" {
		currentContext["user_location"] = *location
	}

	fmt.Printf("Customer: %s\n", *message)
	intent, err := provider.ParseDeliveryRequest(ctx, *message, currentContext)
	if err != nil {
		log.Fatalf("parse request: %v", err)
	}

	fmt.Printf("Reply: %s\n", intent.Reply)
	fmt.Printf("Intent: %s (complete=%t)\n", intent.Intent, intent.Complete())
	if intent.UseMyLocation {
		fmt.Println("Start: device location")
	} else if intent.StartAddress != nil {
		fmt.Printf("Start: %s\n", *intent.StartAddress)
	}
	if intent.Destination != nil {
		fmt.Printf("Destination: %s\n", *intent.Destination)
	}
	if intent.BuyerService {
		fmt.Printf("Buyer service: %.1f h, %.1f kg\n", intent.Hours, intent.WeightKg)
	}
}
