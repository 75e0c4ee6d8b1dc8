package wolframalpha

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/robyulchat/modplugins/helpers"
)

const (
	wolframIcon = "https://i.imgur.com/sGKq1A6.png"
	wolframURL  = "http://www.wolframalpha.com/input/?i="

	colorWolfram = "ff7e00"
	colorError   = "be1931"
	colorEmpty   = "696969"
)

// ResultURL links to the results of $query on the website
func ResultURL(query string) string {
	return wolframURL + query
}

// Render builds the result embed for a successful $result
func Render(result *Result, query string, mode Mode) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorWolfram),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Wolfram|Alpha",
			IconURL: wolframIcon,
			URL:     ResultURL(query),
		},
	}

	if mode != ModeFull {
		if primary := result.PrimaryPod(); primary != nil && len(primary.SubPods) > 0 {
			subPod := primary.SubPods[0]
			if subPod.Text != "" {
				embed.Description = codeBlock(subPod.Text)
			} else if subPod.Image != "" {
				embed.Image = &discordgo.MessageEmbedImage{URL: subPod.Image}
			}
		}
		embed.Footer = &discordgo.MessageEmbedFooter{Text: helpers.GetText("plugins.wolframalpha.footer-compact")}
		return embed
	}

	var imageSet bool
	for i, pod := range result.Pods {
		var values []string
		for _, subPod := range pod.SubPods {
			switch {
			case subPod.Text != "":
				values = append(values, codeBlock(subPod.Text))
			case subPod.Image != "" && !imageSet:
				values = append(values, helpers.GetText("plugins.wolframalpha.see-embedded-image"))
				embed.Image = &discordgo.MessageEmbedImage{URL: subPod.Image}
				imageSet = true
			case subPod.Image != "":
				values = append(values, helpers.GetTextF("plugins.wolframalpha.click-to-view-image", subPod.Image))
			}
		}
		if len(values) == 0 {
			continue
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, pod.Title),
			Value: strings.Join(values, "\n"),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: helpers.GetText("plugins.wolframalpha.footer-full")}
	return embed
}

func codeBlock(text string) string {
	return "```\n" + text + "\n```"
}

func processingEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorWolfram),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    helpers.GetText("plugins.wolframalpha.processing"),
			IconURL: wolframIcon,
		},
	}
}

func nothingInputtedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorError),
		Title: helpers.GetText("plugins.wolframalpha.nothing-inputted"),
	}
}

func noResultsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorEmpty),
		Title: helpers.GetText("plugins.wolframalpha.no-results"),
	}
}

func tooLongEmbed(query string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       helpers.GetDiscordColorFromHex(colorError),
		Title:       helpers.GetText("plugins.wolframalpha.too-long-title"),
		Description: helpers.GetTextF("plugins.wolframalpha.too-long-description", ResultURL(query)),
	}
}

func errorEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorError),
		Title: helpers.GetText("plugins.wolframalpha.error"),
	}
}
