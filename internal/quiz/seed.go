package quiz

// SeedItems is the starter item bank used by local backends.
func SeedItems() []Item {
	return []Item{
		{
			ID:               "seed-capital-japan",
			Question:         "What is the capital of Japan?",
			CorrectAnswer:    "Tokyo",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"Osaka", "Kyoto", "Fukuoka"},
			Explanation:      "Tokyo is the present-day capital of Japan.",
			Published:        true,
		},
		{
			ID:               "seed-not-a-language",
			Question:         "Which of these is usually not classed as a programming language?",
			CorrectAnswer:    "HTML",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"Python", "JavaScript", "Ruby"},
			Explanation:      "HTML is a markup language and carries no program logic.",
			Published:        true,
		},
		{
			ID:               "seed-blue-sky",
			Question:         "What is the main reason the sky looks blue?",
			CorrectAnswer:    "Rayleigh scattering",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"Mie scattering", "The Doppler effect", "The Tyndall effect"},
			Explanation:      "Short blue wavelengths scatter off air molecules far more than red ones.",
			Published:        true,
		},
		{
			ID:               "seed-even-number",
			Question:         "Which of these numbers is even?",
			CorrectAnswer:    "2",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"1", "3", "5"},
			Explanation:      "2 divides by 2 with no remainder.",
			Published:        true,
		},
		{
			ID:               "seed-highest-mountain",
			Question:         "What is the highest mountain in Japan?",
			CorrectAnswer:    "Mount Fuji",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"Kita-dake", "Okuhotaka-dake", "Aino-dake"},
			Explanation:      "Mount Fuji stands 3,776 m tall.",
			Published:        true,
		},
		{
			ID:               "seed-go-gopher",
			Question:         "The Go mascot is a gopher.",
			CorrectAnswer:    "True",
			IncorrectAnswers: [MaxIncorrectAnswers]string{"False"},
			Explanation:      "Renee French designed the Go gopher.",
			Published:        true,
		},
	}
}
