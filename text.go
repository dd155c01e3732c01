package main

var (
	AboutMe = `I'm **Ali**, a CS student at KFUPM. I care about *Software Design* and how
parts fit together, *simple UI/UX*, and *data that makes sense*.

I'm also into *Cybersecurity*, *AI*, and *Game Development*.

My goal is to build apps that feel fast, are easy to understand, and stay
reliable as they grow.`

	ServiceName = "portfolio"
)
