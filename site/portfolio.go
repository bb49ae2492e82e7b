package site

type NavItem struct {
	Id    string
	Label string
	Icon  string
}

type Skill struct {
	Name string
	Icon string
}

type Project struct {
	Title       string
	Description string
	Image       string
	Link        string
}

type Social struct {
	Name string
	Url  string
}

type Portfolio struct {
	Owner          string
	Greeting       string
	Role           string
	Focus          string
	Intro          string
	Photo          string
	LearningStyle  string
	About          []string
	Skills         []Skill
	Projects       []Project
	Socials        []Social
	ContactLead    string
	FooterNotice   string
	EmptyFeedLabel string
}

// NavItems lists the sections reachable from the navbar, in page order.
var NavItems = []NavItem{
	{Id: "hero", Label: "Beranda", Icon: "🏠"},
	{Id: "about", Label: "Tentang", Icon: "👤"},
	{Id: "skills", Label: "Keahlian", Icon: "💻"},
	{Id: "projects", Label: "Galeri", Icon: "📁"},
	{Id: "contact", Label: "Kontak", Icon: "✉️"},
}

const devicon = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/"

var Default = Portfolio{
	Owner:         "Adam Marchelino",
	Greeting:      "Halo 👋, perkenalkan saya",
	Role:          "Junior Developer",
	Focus:         "Front End",
	Intro:         "Saya sedang belajar membangun website modern dengan Vite + React dan Tailwind CSS. Saya Learning By Doing sambil terus memperdalam apa yang saya pelajari setiap harinya.",
	Photo:         "/static/adam-marchelino-pfp.jpg",
	LearningStyle: "https://share.evernote.com/note/08c0a2aa-1dcd-5b05-7dc0-8dddd5181131",
	About: []string{
		"Hai, saya Adam Marchelino. Saya masih tergolong baru di dunia pemrograman sekitar 2 bulan serius belajar. Saya punya keinginan kuat untuk belajar, dan terus mengupgrade value saya.",
		"Saya tertarik pada pemrograman karena semuanya cocok dengan pola pikir saya, saya menyukai critical thinking dan logical thinking. Saat ini saya sedang mendalami Front-end, Cybersecurity, dan Artificial Intelligence.",
		"Sebagai pemula, saya punya pola pikir kritis dan rasa ingin tahu yang tinggi, jadi saya suka penasaran kenapa sesuatu bisa bekerja, bukan cuma tau bagaimana caranya.",
	},
	Skills: []Skill{
		{Name: "HTML5", Icon: devicon + "html5/html5-original.svg"},
		{Name: "CSS", Icon: devicon + "css3/css3-original.svg"},
		{Name: "JavaScript", Icon: devicon + "javascript/javascript-original.svg"},
		{Name: "React", Icon: devicon + "react/react-original.svg"},
		{Name: "Tailwind CSS", Icon: devicon + "tailwindcss/tailwindcss-original.svg"},
		{Name: "Node.js", Icon: devicon + "nodejs/nodejs-original.svg"},
		{Name: "Canva", Icon: devicon + "canva/canva-original.svg"},
		{Name: "Firebase", Icon: devicon + "firebase/firebase-plain.svg"},
		{Name: "Prompt Engineer", Icon: "https://upload.wikimedia.org/wikipedia/commons/0/04/ChatGPT_logo.svg"},
		{Name: "Basic Kali Linux", Icon: "https://upload.wikimedia.org/wikipedia/commons/2/2b/Kali-dragon-icon.svg"},
	},
	Projects: []Project{
		{
			Title:       "Fundamental Cyber Security",
			Description: "Saya mempelajari dasar-dasar keamanan siber seperti jenis serangan, teknik perlindungan data, dan cara menjaga keamanan sistem dari ancaman digital.",
			Image:       "https://codingstudio.id/wp-content/uploads/2020/06/LOGO-MASTERFILE.png",
			Link:        "https://member.codingstudio.id/certificate/6BOtGK7Qnx",
		},
		{
			Title:       "Student Developer Initiative",
			Description: "Saya mengikuti kegiatan kolaborasi Hacktiv8 dan IBM untuk mempelajari AI dalam pengembangan aplikasi.",
			Image:       "https://www.hacktiv8.com/kitabisa/hacktiv8-short.svg",
			Link:        "https://www.instagram.com/p/DL9gjSipN_OmBWf1ghlKY57J6ebq203MhZB0sA0/",
		},
		{
			Title:       "Learning Milestones",
			Description: "Perjalanan belajar programming melalui berbagai platform, belajar dengan prinsip yang dimiliki dan mampu memanfaatkan resource untuk dipelajari.",
			Image:       "https://upload.wikimedia.org/wikipedia/commons/f/fa/FreeCodeCamp_logo.svg",
			Link:        "https://www.freecodecamp.org/Adam_Marchelino",
		},
	},
	Socials: []Social{
		{Name: "LinkedIn", Url: "https://www.linkedin.com/in/adam-marchelino/"},
		{Name: "GitHub", Url: "https://github.com/adammarchelino"},
		{Name: "YouTube", Url: "https://www.youtube.com/@adam_marchelino"},
		{Name: "Instagram", Url: "https://www.instagram.com/adam_marchelino"},
	},
	ContactLead:    "Saya Terbuka Untuk Diskusi, Atau Pertanyaan. Silahkan Isi Form Di Bawah Ini.",
	FooterNotice:   "Hak Cipta Dilindungi.",
	EmptyFeedLabel: "Belum ada pesan.",
}
